package preprocessor

import (
	"testing"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndBind(t *testing.T, raw string, vars ...string) []*rules.Rule {
	t.Helper()
	rs, err := ParseRules([]byte(raw))
	require.NoError(t, err)
	BindVariables(rs, catalog.Default(), vars)
	return rs
}

func TestValidateRules_Valid(t *testing.T) {
	rs := parseAndBind(t, validRulesJSON, "bonus", "odds", "counter")
	issues := ValidateRules(rs, catalog.Default(), []string{"bonus", "odds", "counter"})
	assert.NoError(t, issues.Err())
	assert.Empty(t, issues)
}

func TestValidateRules_UndeclaredVariable(t *testing.T) {
	rs := parseAndBind(t, validRulesJSON, "bonus", "odds")
	issues := ValidateRules(rs, catalog.Default(), []string{"bonus", "odds"})
	require.Error(t, issues.Err())
	assert.True(t, issues.HasCode(CodeUndeclaredVariable), "counter is not declared")
}

func TestValidateRules_Findings(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		code     string
		severity Severity
	}{
		{
			name:     "unknown trigger",
			rule:     `{"id":"r","trigger":"nope","effects":[]}`,
			code:     CodeUnknownTrigger,
			severity: SeverityError,
		},
		{
			name:     "condition not applicable",
			rule:     `{"id":"r","trigger":"hand_played","conditionGroups":[{"id":"g","operator":"and","conditions":[{"id":"c","type":"card_suit","params":{"suit_type":"specific","specific_suit":"Hearts"}}]}],"effects":[{"id":"e","type":"add_mult","params":{"value":4}}]}`,
			code:     CodeNotApplicable,
			severity: SeverityError,
		},
		{
			name:     "unknown effect type",
			rule:     `{"id":"r","trigger":"hand_played","effects":[{"id":"e","type":"explode","params":{}}]}`,
			code:     CodeUnknownType,
			severity: SeverityError,
		},
		{
			name:     "invalid select option",
			rule:     `{"id":"r","trigger":"hand_played","conditionGroups":[{"id":"g","operator":"and","conditions":[{"id":"c","type":"hand_type","params":{"value":"Five of a Kind"}}]}],"effects":[{"id":"e","type":"add_mult","params":{"value":4}}]}`,
			code:     CodeInvalidOption,
			severity: SeverityError,
		},
		{
			name:     "missing required param",
			rule:     `{"id":"r","trigger":"hand_played","conditionGroups":[{"id":"g","operator":"and","conditions":[{"id":"c","type":"hand_type","params":{}}]}],"effects":[{"id":"e","type":"add_mult","params":{"value":4}}]}`,
			code:     CodeMissingParam,
			severity: SeverityError,
		},
		{
			name:     "number below min",
			rule:     `{"id":"r","trigger":"hand_played","effects":[{"id":"e","type":"add_chips","params":{"value":-5}}]}`,
			code:     CodeOutOfRange,
			severity: SeverityError,
		},
		{
			name:     "not a number",
			rule:     `{"id":"r","trigger":"hand_played","effects":[{"id":"e","type":"add_chips","params":{"value":"lots"}}]}`,
			code:     CodeNotANumber,
			severity: SeverityError,
		},
		{
			name:     "malformed game variable",
			rule:     `{"id":"r","trigger":"hand_played","effects":[{"id":"e","type":"add_chips","params":{"value":"GAMEVAR:|x"}}]}`,
			code:     CodeMalformedValue,
			severity: SeverityError,
		},
		{
			name:     "hidden param",
			rule:     `{"id":"r","trigger":"hand_played","effects":[{"id":"e","type":"level_up_hand","params":{"hand_selection":"current","specific_hand":"Pair","value":1}}]}`,
			code:     CodeHiddenParam,
			severity: SeverityWarning,
		},
		{
			name:     "zero chance denominator",
			rule:     `{"id":"r","trigger":"hand_played","randomGroups":[{"id":"rg","chance_numerator":1,"chance_denominator":0,"effects":[{"id":"e","type":"add_mult","params":{"value":4}}]}]}`,
			code:     CodeInvalidChance,
			severity: SeverityError,
		},
		{
			name:     "bad group operator",
			rule:     `{"id":"r","trigger":"hand_played","conditionGroups":[{"id":"g","operator":"xor","conditions":[{"id":"c","type":"hand_type","params":{"value":"Pair"}}]}],"effects":[{"id":"e","type":"add_mult","params":{"value":4}}]}`,
			code:     CodeInvalidOperator,
			severity: SeverityError,
		},
		{
			name:     "bad custom message",
			rule:     `{"id":"r","trigger":"hand_played","effects":[{"id":"e","type":"add_mult","params":{"value":4},"customMessage":"say \"hi\""}]}`,
			code:     CodeInvalidCustomMessage,
			severity: SeverityError,
		},
		{
			name:     "empty rule",
			rule:     `{"id":"r","trigger":"hand_played","effects":[]}`,
			code:     CodeEmptyRule,
			severity: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := parseAndBind(t, "["+tt.rule+"]")
			issues := ValidateRules(rs, catalog.Default(), nil)
			var found *Issue
			for i := range issues {
				if issues[i].Code == tt.code {
					found = &issues[i]
					break
				}
			}
			require.NotNil(t, found, "expected %s in %v", tt.code, issues)
			assert.Equal(t, tt.severity, found.Severity)
			assert.Equal(t, "r", found.RuleID)
		})
	}
}

func TestValidateRules_VariablesNotAllowed(t *testing.T) {
	rule := rules.NewRule("hand_played", rules.Position{})
	_, err := rule.AddCondition("", "hand_type", rules.Params{"value": rules.Variable("counter")})
	require.NoError(t, err)
	rule.AddEffect("add_mult", rules.Params{"value": rules.Number(4)})

	issues := ValidateRules([]*rules.Rule{rule}, catalog.Default(), []string{"counter"})
	assert.True(t, issues.HasCode(CodeVariablesNotAllowed))
}

func TestIssues_ErrFiltersWarnings(t *testing.T) {
	issues := Issues{{Code: CodeEmptyRule, Severity: SeverityWarning}}
	assert.NoError(t, issues.Err())

	issues = append(issues, Issue{RuleID: "r", Path: "trigger", Code: CodeUnknownTrigger, Message: "unknown trigger 'x'", Severity: SeverityError})
	err := issues.Err()
	require.Error(t, err)
	assert.Equal(t, "error: rule r trigger: unknown trigger 'x'", err.Error())
}

func TestValidateRules_SkipsNilEntries(t *testing.T) {
	cat := catalog.Default()
	rs := []*rules.Rule{nil}
	assert.Empty(t, ValidateRules(rs, cat, nil))
	assert.Empty(t, NormalizeRules(rs, cat))
	assert.Zero(t, BindVariables(rs, cat, []string{"counter"}))
	dups, err := DuplicateRules(rs)
	require.NoError(t, err)
	assert.Empty(t, dups)
}
