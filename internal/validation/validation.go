// Package validation holds the field-level checks the editor re-runs on every
// change. Checks never fail hard: they return a Result carrying the message to
// show next to the field.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of checking one field. A zero Message means the field is fine.
type Result struct {
	Field    string   `json:"field"`
	Message  string   `json:"message,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

func (r Result) Valid() bool {
	return r.Severity != SeverityError
}

func ok(field string) Result {
	return Result{Field: field}
}

func fail(field, format string, args ...any) Result {
	return Result{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warn(field, format string, args ...any) Result {
	return Result{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

const (
	MaxNameLength          = 50
	MaxDescriptionLength   = 500
	MaxVariableNameLength  = 30
	MaxCustomMessageLength = 100
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	nameCharsPattern  = regexp.MustCompile(`^[\p{L}\p{N} '!?.,&:+\-()]*$`)
)

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Names the game runtime already uses on a card's ability table.
var reservedVariables = map[string]bool{
	"mult": true, "chips": true, "x_mult": true, "x_chips": true, "dollars": true,
	"extra": true, "name": true, "set": true, "effect": true, "card": true,
	"self": true, "context": true, "G": true, "SMODS": true,
}

// ValidateName checks an item name.
func ValidateName(name string) Result {
	const field = "name"
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fail(field, "Name is required")
	case utf8.RuneCountInString(trimmed) > MaxNameLength:
		return fail(field, "Name must be %d characters or less", MaxNameLength)
	case !nameCharsPattern.MatchString(trimmed):
		return warn(field, "Name contains special characters that may not display correctly")
	}
	return ok(field)
}

// ValidateDescription checks an item description, including its formatting tags.
func ValidateDescription(description string) Result {
	const field = "description"
	trimmed := strings.TrimSpace(description)
	switch {
	case trimmed == "":
		return fail(field, "Description is required")
	case utf8.RuneCountInString(trimmed) > MaxDescriptionLength:
		return fail(field, "Description must be %d characters or less", MaxDescriptionLength)
	}
	if opened, closed := strings.Count(trimmed, "{"), strings.Count(trimmed, "}"); opened != closed {
		return warn(field, "Formatting tags are unbalanced: %d '{' and %d '}'", opened, closed)
	}
	return ok(field)
}

// ValidateVariableName checks a user variable name against the names already
// declared on the same item.
func ValidateVariableName(name string, existing []string) Result {
	const field = "variableName"
	switch {
	case name == "":
		return fail(field, "Variable name is required")
	case len(name) > MaxVariableNameLength:
		return fail(field, "Variable name must be %d characters or less", MaxVariableNameLength)
	case !identifierPattern.MatchString(name):
		return fail(field, "Variable name must start with a letter or underscore and contain only letters, numbers and underscores")
	case luaKeywords[name]:
		return fail(field, "'%s' is a reserved keyword", name)
	case reservedVariables[name]:
		return fail(field, "'%s' is reserved by the game", name)
	}
	for _, other := range existing {
		if strings.EqualFold(other, name) {
			return fail(field, "A variable named '%s' already exists", other)
		}
	}
	return ok(field)
}

// ValidateCustomMessage checks the optional message shown when an effect fires.
// An empty message is valid: the game's default message is used.
func ValidateCustomMessage(message string) Result {
	const field = "customMessage"
	switch {
	case message == "":
		return ok(field)
	case utf8.RuneCountInString(message) > MaxCustomMessageLength:
		return fail(field, "Custom message must be %d characters or less", MaxCustomMessageLength)
	case strings.ContainsAny(message, "\"\\\n"):
		return fail(field, "Custom message cannot contain quotes, backslashes or line breaks")
	}
	return ok(field)
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	err := v.RegisterValidation("luaident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return identifierPattern.MatchString(s) && !luaKeywords[s]
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register luaident: %v", err))
	}
	return v
}

// ValidateStruct runs the validate struct tags on v and reports one Result per
// failing field.
func ValidateStruct(v any) []Result {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	errs, isFieldErrs := err.(validator.ValidationErrors)
	if !isFieldErrs {
		return []Result{fail("", "%v", err)}
	}
	results := make([]Result, 0, len(errs))
	for _, fe := range errs {
		results = append(results, fail(fe.Namespace(), "%s", describe(fe)))
	}
	return results
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "luaident":
		return fmt.Sprintf("%s must be a valid identifier", fe.Field())
	default:
		return fmt.Sprintf("%s failed '%s' validation", fe.Field(), fe.Tag())
	}
}
