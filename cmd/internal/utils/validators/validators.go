package validators

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var hasSpaces = regexp.MustCompile(`\s+`)

// Register installs the custom tags used by request contracts and makes
// validation errors report fields by their JSON name.
func Register(validate *validator.Validate) error {
	validate.RegisterTagNameFunc(jsonFieldName)
	return validate.RegisterValidation("nospaces", NoWhiteSpaces)
}

// New returns a validator with the custom tags already registered.
func New() *validator.Validate {
	validate := validator.New()
	if err := Register(validate); err != nil {
		panic(err)
	}
	return validate
}

// NoWhiteSpaces returns false if the string contains any whitespace (rejecting the user input).
func NoWhiteSpaces(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	str := field.String()
	return !hasSpaces.MatchString(str)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
