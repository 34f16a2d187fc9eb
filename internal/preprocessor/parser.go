package preprocessor

import (
	"encoding/json"
	"fmt"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/rules"

	"github.com/rs/zerolog/log"
)

// ParseRules decodes a JSON array of rules.
func ParseRules(rulesJSON []byte) ([]*rules.Rule, error) {
	log.Info().Msg("Started parsing rules...")
	var ruleDefs []json.RawMessage
	if err := json.Unmarshal(rulesJSON, &ruleDefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules JSON: %w", err)
	}

	parsedRules := make([]*rules.Rule, 0, len(ruleDefs))
	for i, rJSON := range ruleDefs {
		rule, err := parseRule(rJSON)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		parsedRules = append(parsedRules, rule)
	}

	return parsedRules, nil
}

func parseRule(ruleJSON []byte) (*rules.Rule, error) {
	var rule rules.Rule
	if err := json.Unmarshal(ruleJSON, &rule); err != nil {
		return nil, fmt.Errorf("failed to parse rule JSON: %w", err)
	}
	return &rule, nil
}

// BindVariables turns literal strings that name a declared variable into
// variable references, for params whose definition accepts variables. The
// editor stores references as bare names, so this runs after parsing and
// before validation. It returns the number of bound values.
func BindVariables(rs []*rules.Rule, cat *catalog.Catalog, variables []string) int {
	declared := make(map[string]bool, len(variables))
	for _, name := range variables {
		declared[name] = true
	}

	bound := 0
	bind := func(v rules.Value) rules.Value {
		if v.Kind() == rules.KindString && declared[v.Text()] {
			if _, numeric := v.Float(); !numeric {
				bound++
				return rules.Variable(v.Text())
			}
		}
		return v
	}
	bindParams := func(def *rules.TypeDefinition, params rules.Params) {
		for id, value := range params {
			p, ok := def.Param(id)
			if !ok || !p.Variables {
				continue
			}
			params[id] = bind(value)
		}
	}
	bindEffects := func(effects []rules.Effect) {
		for i := range effects {
			if def, ok := cat.EffectType(effects[i].Type); ok {
				bindParams(&def.TypeDefinition, effects[i].Params)
			}
		}
	}

	for _, rule := range rs {
		if rule == nil {
			continue
		}
		for gi := range rule.ConditionGroups {
			for ci := range rule.ConditionGroups[gi].Conditions {
				cond := &rule.ConditionGroups[gi].Conditions[ci]
				if def, ok := cat.ConditionType(cond.Type); ok {
					bindParams(&def.TypeDefinition, cond.Params)
				}
			}
		}
		bindEffects(rule.Effects)
		for gi := range rule.RandomGroups {
			group := &rule.RandomGroups[gi]
			group.ChanceNumerator = bind(group.ChanceNumerator)
			group.ChanceDenominator = bind(group.ChanceDenominator)
			bindEffects(group.Effects)
		}
	}
	log.Debug().Int("bound", bound).Msg("Bound variable references")
	return bound
}
