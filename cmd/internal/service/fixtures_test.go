package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/domain/database"
	"tenantnotes/cmd/internal/domain/database/repository"
	"tenantnotes/cmd/internal/domain/entity"
	"tenantnotes/cmd/internal/domain/events"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/utils/validators"
)

const testPassword = "password"

var (
	hashOnce   sync.Once
	sharedHash string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		sharedHash, err = auth.HashPassword(testPassword)
		if err != nil {
			panic(err)
		}
	})
	return sharedHash
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]events.SocketEvent
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: map[string][]events.SocketEvent{}}
}

func (r *recordingNotifier) Notify(_ context.Context, userID string, evt events.SocketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[userID] = append(r.sent[userID], evt)
	return nil
}

// waitFor polls until 'userID' received 'n' events.
func (r *recordingNotifier) waitFor(t *testing.T, userID string, n int) []events.SocketEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		r.mu.Lock()
		got := append([]events.SocketEvent(nil), r.sent[userID]...)
		r.mu.Unlock()

		if len(got) >= n {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("user %s received %d events, want %d", userID, len(got), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// world is a fully wired service layer over an in-memory database with the
// acme and globex tenants, each holding one admin and one member.
type world struct {
	db       *gorm.DB
	validate *validator.Validate
	notifier *recordingNotifier

	tenants    *repository.DefaultTenantRepository
	users      *repository.DefaultUserRepository
	noteRepo   *repository.DefaultNoteRepository
	connRepo   *repository.DefaultConnectionRepository
	quota      *QuotaService
	notes      *DefaultNoteService
	userSvc    *DefaultUserService
	tenantSvc  *DefaultTenantService
	invites    *DefaultInvitationService
	authSvc    *DefaultAuthService
	tokenCodec *auth.TokenCodec

	acme, globex                                 *entity.Tenant
	acmeAdmin, acmeUser, globexAdmin, globexUser *entity.Identity
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token codec: %v", err)
	}

	w := &world{
		db:         db,
		validate:   validators.New(),
		notifier:   newRecordingNotifier(),
		tenants:    repository.NewTenantRepository(db),
		users:      repository.NewUserRepository(db),
		noteRepo:   repository.NewNoteRepository(db),
		connRepo:   repository.NewConnectionRepository(db),
		tokenCodec: codec,
	}

	quotaPolicy := policy.NewQuotaPolicy(policy.DefaultFreeNoteLimit)
	w.quota = NewQuotaService(w.tenants, w.noteRepo, quotaPolicy)
	w.notes = NewNoteService(w.noteRepo, quotaPolicy, w.notifier, w.validate, nil)
	w.userSvc = NewUserService(w.users, w.validate)
	w.tenantSvc = NewTenantService(w.tenants, w.quota, w.validate)
	w.invites = NewInvitationService(w.users, w.tenants, w.tenantSvc, w.notifier, w.validate)
	w.authSvc = NewAuthService(w.users, codec, w.validate, nil)

	w.acme = w.addTenant(t, "acme", "Acme Corp")
	w.globex = w.addTenant(t, "globex", "Globex Corporation")
	w.acmeAdmin = w.addUser(t, w.acme, "admin@acme.test", entity.RoleAdmin, 1)
	w.acmeUser = w.addUser(t, w.acme, "user@acme.test", entity.RoleMember, 2)
	w.globexAdmin = w.addUser(t, w.globex, "admin@globex.test", entity.RoleAdmin, 3)
	w.globexUser = w.addUser(t, w.globex, "user@globex.test", entity.RoleMember, 4)
	return w
}

func (w *world) addTenant(t *testing.T, slug, name string) *entity.Tenant {
	t.Helper()
	tenant := &entity.Tenant{Slug: slug, Name: name, Subscription: entity.SubscriptionFree, CreatedAt: 1, UpdatedAt: 1}
	if err := w.tenants.Create(context.Background(), tenant); err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	return tenant
}

func (w *world) addUser(t *testing.T, tenant *entity.Tenant, email string, role entity.Role, createdAt int64) *entity.Identity {
	t.Helper()
	user := &entity.User{
		Email:        email,
		PasswordHash: passwordHash(t),
		Role:         role,
		TenantID:     tenant.ID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := w.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	return &entity.Identity{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
	}
}
