package preprocessor

import (
	"fmt"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/rules"
	"jokerforge/forge/internal/validation"

	"github.com/rs/zerolog/log"
)

type ruleValidator struct {
	cat       *catalog.Catalog
	variables map[string]bool
	rule      *rules.Rule
	issues    Issues
}

func (v *ruleValidator) report(sev Severity, path, code, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		RuleID:   v.rule.ID,
		Path:     path,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
	})
}

// ValidateRules checks every rule against the catalog and the item's declared
// variables. It collects all findings instead of stopping at the first.
func ValidateRules(rs []*rules.Rule, cat *catalog.Catalog, variables []string) Issues {
	log.Info().Msg("Started validating rules...")
	v := &ruleValidator{cat: cat, variables: make(map[string]bool, len(variables))}
	for _, name := range variables {
		v.variables[name] = true
	}
	for _, rule := range rs {
		if rule == nil {
			continue
		}
		v.rule = rule
		v.validateRule()
	}
	log.Debug().Int("rules", len(rs)).Int("issues", len(v.issues)).Msg("Finished validating rules")
	return v.issues
}

func (v *ruleValidator) validateRule() {
	rule := v.rule
	if _, ok := v.cat.Trigger(rule.Trigger); !ok {
		v.report(SeverityError, "trigger", CodeUnknownTrigger, "unknown trigger '%s'", rule.Trigger)
	}

	for gi, group := range rule.ConditionGroups {
		groupPath := fmt.Sprintf("conditionGroups[%d]", gi)
		if !group.Operator.Valid() {
			v.report(SeverityError, groupPath, CodeInvalidOperator, "invalid group operator '%s'", group.Operator)
		}
		for ci, cond := range group.Conditions {
			v.validateCondition(fmt.Sprintf("%s.conditions[%d]", groupPath, ci), cond)
		}
	}

	for i, effect := range rule.Effects {
		v.validateEffect(fmt.Sprintf("effects[%d]", i), effect)
	}

	for gi, group := range rule.RandomGroups {
		groupPath := fmt.Sprintf("randomGroups[%d]", gi)
		v.validateChance(groupPath, group)
		for i, effect := range group.Effects {
			v.validateEffect(fmt.Sprintf("%s.effects[%d]", groupPath, i), effect)
		}
	}

	if rule.Empty() {
		v.report(SeverityWarning, "", CodeEmptyRule, "rule has no effects")
	}
}

func (v *ruleValidator) validateCondition(path string, cond rules.Condition) {
	if !cond.Operator.Valid() {
		v.report(SeverityError, path, CodeInvalidOperator, "invalid condition operator '%s'", cond.Operator)
	}
	def, ok := v.cat.ConditionType(cond.Type)
	if !ok {
		v.report(SeverityError, path, CodeUnknownType, "unknown condition type '%s'", cond.Type)
		return
	}
	if !def.AppliesTo(v.rule.Trigger) {
		v.report(SeverityError, path, CodeNotApplicable, "condition '%s' cannot be used with trigger '%s'", cond.Type, v.rule.Trigger)
	}
	v.validateParams(path, &def.TypeDefinition, cond.Params)
}

func (v *ruleValidator) validateEffect(path string, effect rules.Effect) {
	def, ok := v.cat.EffectType(effect.Type)
	if !ok {
		v.report(SeverityError, path, CodeUnknownType, "unknown effect type '%s'", effect.Type)
		return
	}
	if !def.AppliesTo(v.rule.Trigger) {
		v.report(SeverityError, path, CodeNotApplicable, "effect '%s' cannot be used with trigger '%s'", effect.Type, v.rule.Trigger)
	}
	v.validateParams(path, &def.TypeDefinition, effect.Params)
	if res := validation.ValidateCustomMessage(effect.CustomMessage); !res.Valid() {
		v.report(SeverityError, path+".customMessage", CodeInvalidCustomMessage, "%s", res.Message)
	}
}

func (v *ruleValidator) validateParams(path string, def *rules.TypeDefinition, params rules.Params) {
	for id := range params {
		p, ok := def.Param(id)
		if !ok {
			v.report(SeverityWarning, path+"."+id, CodeUnknownParam, "'%s' has no parameter '%s'", def.ID, id)
			continue
		}
		if !catalog.IsVisible(def.Params, p, params) {
			v.report(SeverityWarning, path+"."+id, CodeHiddenParam, "parameter '%s' is hidden by its current settings", id)
		}
	}

	for _, p := range catalog.VisibleParams(def.Params, params) {
		paramPath := path + "." + p.ID
		value, present := params[p.ID]
		if !present || value.IsZero() {
			if !p.Optional && p.Default == nil && p.Type != rules.ParamCheckbox {
				v.report(SeverityError, paramPath, CodeMissingParam, "parameter '%s' is required", p.ID)
			}
			continue
		}
		v.validateValue(paramPath, &p, params, value)
	}
}

func (v *ruleValidator) validateValue(path string, p *rules.ParamDefinition, params rules.Params, value rules.Value) {
	if value.Malformed() {
		v.report(SeverityError, path, CodeMalformedValue, "malformed encoded value '%s'", value.Text())
		return
	}

	switch value.Kind() {
	case rules.KindVariable, rules.KindGameVar:
		if !p.Variables {
			v.report(SeverityError, path, CodeVariablesNotAllowed, "parameter '%s' does not accept variables", p.ID)
			return
		}
		if name, isVar := value.VariableName(); isVar && !v.variables[name] {
			v.report(SeverityError, path, CodeUndeclaredVariable, "variable '%s' is not declared", name)
		}
		return
	case rules.KindRange:
		if !p.Variables && p.Type != rules.ParamRange {
			v.report(SeverityError, path, CodeVariablesNotAllowed, "parameter '%s' does not accept ranges", p.ID)
			return
		}
		r := value.Range()
		v.checkBounds(path, p, r.Min)
		v.checkBounds(path, p, r.Max)
		return
	}

	switch p.Type {
	case rules.ParamSelect:
		options := catalog.ResolveOptions(p, params)
		if len(options) == 0 {
			return
		}
		for _, opt := range options {
			if opt.Value == value.String() {
				return
			}
		}
		v.report(SeverityError, path, CodeInvalidOption, "'%s' is not a valid option for '%s'", value.String(), p.ID)
	case rules.ParamNumber:
		n, ok := value.Float()
		if !ok {
			v.report(SeverityError, path, CodeNotANumber, "parameter '%s' must be a number, got '%s'", p.ID, value.String())
			return
		}
		v.checkBounds(path, p, n)
	case rules.ParamVariable:
		if !v.variables[value.String()] {
			v.report(SeverityError, path, CodeUndeclaredVariable, "variable '%s' is not declared", value.String())
		}
	}
}

func (v *ruleValidator) checkBounds(path string, p *rules.ParamDefinition, n float64) {
	if p.Min != nil && n < *p.Min {
		v.report(SeverityError, path, CodeOutOfRange, "parameter '%s' must be at least %v", p.ID, *p.Min)
	}
	if p.Max != nil && n > *p.Max {
		v.report(SeverityError, path, CodeOutOfRange, "parameter '%s' must be at most %v", p.ID, *p.Max)
	}
}

func (v *ruleValidator) validateChance(path string, group rules.RandomGroup) {
	numerator, numOK := v.chanceTerm(path+".chance_numerator", group.ChanceNumerator)
	denominator, denOK := v.chanceTerm(path+".chance_denominator", group.ChanceDenominator)
	if numOK && numerator < 1 {
		v.report(SeverityError, path+".chance_numerator", CodeInvalidChance, "chance numerator must be at least 1")
	}
	if denOK && denominator < 1 {
		v.report(SeverityError, path+".chance_denominator", CodeInvalidChance, "chance denominator must be at least 1")
	}
	if numOK && denOK && numerator > denominator {
		v.report(SeverityWarning, path, CodeInvalidChance, "chance %v in %v always succeeds", numerator, denominator)
	}
}

// chanceTerm validates one side of a chance and returns its literal value
// when it has one.
func (v *ruleValidator) chanceTerm(path string, value rules.Value) (float64, bool) {
	switch value.Kind() {
	case rules.KindNone:
		v.report(SeverityError, path, CodeMissingParam, "chance value is required")
	case rules.KindVariable:
		if name, _ := value.VariableName(); !v.variables[name] {
			v.report(SeverityError, path, CodeUndeclaredVariable, "variable '%s' is not declared", name)
		}
	case rules.KindGameVar:
	case rules.KindRange:
		v.report(SeverityError, path, CodeInvalidChance, "chance values cannot be ranges")
	default:
		if value.Malformed() {
			v.report(SeverityError, path, CodeMalformedValue, "malformed encoded value '%s'", value.Text())
			return 0, false
		}
		n, ok := value.Float()
		if !ok {
			v.report(SeverityError, path, CodeNotANumber, "chance must be a number, got '%s'", value.String())
			return 0, false
		}
		return n, true
	}
	return 0, false
}
