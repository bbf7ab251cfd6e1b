package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor used for every stored credential.
const PasswordCost = 12

// dummyHash is compared against when a login names an unknown email, so the
// request costs the same as a real password check. Its cost must stay equal
// to PasswordCost.
var dummyHash = []byte("$2a$12$FLuYmjNjmvL1x6T8/rH2Quc6zj5sD1HVlr5pxBpkVlADPxdtxX9Ei")

// HashPassword returns the bcrypt hash of 'plain'.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether 'plain' matches 'hash'. A malformed hash is
// treated as a mismatch.
func VerifyPassword(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck spends the same time as VerifyPassword and always fails.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
