package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// positiveIntPattern is the shape accepted for every id typed into a form.
var positiveIntPattern = regexp.MustCompile(`^\+?[1-9]\d*$`)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their `label` tag so messages read like form labels.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	if err := v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		_, ok := ParsePositiveInt(fl.Field().String())
		return ok
	}); err != nil {
		panic(fmt.Sprintf("register posint validation: %v", err))
	}

	return v
}

// ParsePositiveInt parses s when it matches ^\+?[1-9]\d*$ and fits in an int64.
func ParsePositiveInt(s string) (int64, bool) {
	if !positiveIntPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errors: validationErrors}
		}
		return err
	}
	return nil
}

// ValidationError wraps validator.ValidationErrors with user-facing messages.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns one sentence per failed field, in struct field order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), msgForTag(fe)))
	}
	return msgs
}

// First returns the message of the first failed field.
func (e *ValidationError) First() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Messages()[0]
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "posint":
		return "needs to be a positive integer"
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
