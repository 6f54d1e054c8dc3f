// Package request holds the inbound DTOs and their validation rules. Failures
// come back as a per-field message map keyed by the lower-cased JSON name.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		var lower, upper, digit bool
		for _, c := range fl.Field().String() {
			switch {
			case unicode.IsLower(c):
				lower = true
			case unicode.IsUpper(c):
				upper = true
			case unicode.IsDigit(c):
				digit = true
			}
		}
		return lower && upper && digit
	})
	return v
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,min=6"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username_chars"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password_strength"`
	IsActive *bool  `json:"isActive"`
}

// Active defaults to true when the field is omitted.
func (r CreateUserRequest) Active() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

type UpdateUserRequest struct {
	IsActive *bool `json:"isActive"`
}

type AssignRoleRequest struct {
	RoleID string `json:"roleId" validate:"required"`
}

// Decode reads the JSON body into dst. A malformed or empty body is a caller
// error, reported through the returned message.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Validate runs the struct rules and flattens any violations into the
// per-field error map. A nil map means the value passed.
func Validate(v any) map[string][]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"": {err.Error()}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		out[field] = append(out[field], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "username_chars":
		return fmt.Sprintf("%s may only contain letters, digits and underscores", fe.Field())
	case "password_strength":
		return fmt.Sprintf("%s must contain a lowercase letter, an uppercase letter and a digit", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
