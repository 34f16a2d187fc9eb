package preprocessor

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes reported by ValidateRules.
const (
	CodeUnknownTrigger       = "unknown_trigger"
	CodeUnknownType          = "unknown_type"
	CodeNotApplicable        = "not_applicable"
	CodeMissingParam         = "missing_param"
	CodeUnknownParam         = "unknown_param"
	CodeHiddenParam          = "hidden_param"
	CodeInvalidOption        = "invalid_option"
	CodeNotANumber           = "not_a_number"
	CodeOutOfRange           = "out_of_range"
	CodeVariablesNotAllowed  = "variables_not_allowed"
	CodeUndeclaredVariable   = "undeclared_variable"
	CodeMalformedValue       = "malformed_value"
	CodeInvalidOperator      = "invalid_operator"
	CodeInvalidChance        = "invalid_chance"
	CodeEmptyRule            = "empty_rule"
	CodeInvalidCustomMessage = "invalid_custom_message"
)

// Issue is one validation finding, located by rule id and a path inside the
// rule. Item is the owning item's document path when the rules belong to one.
type Issue struct {
	Item     string   `json:"item,omitempty"`
	RuleID   string   `json:"ruleId"`
	Path     string   `json:"path"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	if i.Item != "" {
		return fmt.Sprintf("%s: %s rule %s %s: %s", i.Severity, i.Item, i.RuleID, i.Path, i.Message)
	}
	return fmt.Sprintf("%s: rule %s %s: %s", i.Severity, i.RuleID, i.Path, i.Message)
}

type Issues []Issue

func (is Issues) Error() string {
	lines := make([]string, 0, len(is))
	for _, i := range is {
		lines = append(lines, i.String())
	}
	return strings.Join(lines, "\n")
}

// Errors returns only error-severity issues.
func (is Issues) Errors() Issues {
	var out Issues
	for _, i := range is {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Err returns the error-severity issues as an error, or nil when there are none.
func (is Issues) Err() error {
	if errs := is.Errors(); len(errs) > 0 {
		return errs
	}
	return nil
}

func (is Issues) HasCode(code string) bool {
	for _, i := range is {
		if i.Code == code {
			return true
		}
	}
	return false
}
