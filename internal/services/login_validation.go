package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/go-playground/validator/v10"
)

// emailPattern accepts a conventional address: a local part without spaces
// or '@', a dotted domain and a top-level segment of at least two letters.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

// Validator instance shared by every login form
var validate = newLoginValidator()

func newLoginValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loginemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// loginRule is one check of the login form, applied in order
type loginRule struct {
	value func(identifier, secret string) string
	tag   string
}

var loginRules = []loginRule{
	{value: func(id, _ string) string { return id }, tag: "required"},
	{value: func(_, secret string) string { return secret }, tag: "required"},
	{value: func(id, _ string) string { return id }, tag: "loginemail"},
	{value: func(_, secret string) string { return secret }, tag: fmt.Sprintf("min=%d", models.MinPasswordLength)},
	{value: func(_, secret string) string { return secret }, tag: "excludesall=<>"},
}

// ValidateLoginForm checks the submitted identifier and secret and stops at
// the first failing rule. The identifier is trimmed before checking.
// It returns the message kind of the failing rule and an error wrapping
// models.ErrValidation, or MsgNone and nil when the form is valid.
func ValidateLoginForm(identifier, secret string) (models.MessageKind, error) {
	identifier = strings.TrimSpace(identifier)

	for _, rule := range loginRules {
		err := validate.Var(rule.value(identifier, secret), rule.tag)
		if err == nil {
			continue
		}

		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return kindForTag(ve[0].Tag()), fmt.Errorf("%w: %s", models.ErrValidation, ve[0].Tag())
		}
		return models.MsgGenericRejected, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	return models.MsgNone, nil
}

// kindForTag converts a failed validator tag to the message shown to the user
func kindForTag(tag string) models.MessageKind {
	switch tag {
	case "required":
		return models.MsgMissingFields
	case "loginemail":
		return models.MsgInvalidEmail
	case "min":
		return models.MsgPasswordTooShort
	case "excludesall":
		return models.MsgPasswordForbidden
	default:
		return models.MsgGenericRejected
	}
}
