package preprocessor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/rules"

	"github.com/rs/zerolog/log"
)

// NormalizeRules returns cleaned copies of the rules: params hidden by their
// showWhen settings are pruned, duplicate conditions within a group are
// dropped, and empty condition and random groups are removed. The input is
// not modified.
func NormalizeRules(validatedRules []*rules.Rule, cat *catalog.Catalog) []*rules.Rule {
	log.Info().Msg("Started normalizing rules...")
	normalized := make([]*rules.Rule, 0, len(validatedRules))
	for _, rule := range validatedRules {
		if rule == nil {
			continue
		}
		normalized = append(normalized, normalizeRule(rule, cat))
	}
	return normalized
}

func normalizeRule(rule *rules.Rule, cat *catalog.Catalog) *rules.Rule {
	out := &rules.Rule{
		ID:       rule.ID,
		Trigger:  rule.Trigger,
		Position: rule.Position,
		Effects:  pruneEffects(rule.Effects, cat),
	}

	out.ConditionGroups = make([]rules.ConditionGroup, 0, len(rule.ConditionGroups))
	for i, group := range rule.ConditionGroups {
		conditions := simplifyAndDedupConditions(group.Conditions, cat)
		if len(conditions) == 0 && canDropEmptyGroup(out.ConditionGroups, group, i == len(rule.ConditionGroups)-1) {
			log.Debug().Str("rule", rule.ID).Str("group", group.ID).Msg("Dropping empty condition group")
			if n := len(out.ConditionGroups); n > 0 {
				out.ConditionGroups[n-1].Operator = group.Operator
			}
			continue
		}
		out.ConditionGroups = append(out.ConditionGroups, rules.ConditionGroup{
			ID:         group.ID,
			Operator:   group.Operator,
			Conditions: conditions,
		})
	}

	out.RandomGroups = make([]rules.RandomGroup, 0, len(rule.RandomGroups))
	for _, group := range rule.RandomGroups {
		if len(group.Effects) == 0 {
			log.Debug().Str("rule", rule.ID).Str("group", group.ID).Msg("Dropping empty random group")
			continue
		}
		group.Effects = pruneEffects(group.Effects, cat)
		out.RandomGroups = append(out.RandomGroups, group)
	}
	return out
}

// canDropEmptyGroup reports whether an empty group, which evaluates to true,
// can be removed without changing the fold. Joined by "and" to what came
// before it is the identity; at the front it only vanishes when its own
// operator is "and" or nothing follows it.
func canDropEmptyGroup(kept []rules.ConditionGroup, group rules.ConditionGroup, last bool) bool {
	if n := len(kept); n > 0 {
		return !kept[n-1].Operator.Or()
	}
	return last || !group.Operator.Or()
}

// simplifyAndDedupConditions prunes hidden params and, in groups joined only
// by "and", drops repeated conditions. Groups containing "or" keep every
// condition since a repeat changes the left-to-right fold there.
func simplifyAndDedupConditions(conditions []rules.Condition, cat *catalog.Catalog) []rules.Condition {
	dedup := conjunctive(conditions)
	simplified := make([]rules.Condition, 0, len(conditions))
	for _, cond := range conditions {
		cond.Params = cond.Params.Clone()
		if def, ok := cat.ConditionType(cond.Type); ok {
			cond.Params = pruneHiddenParams(def.Params, cond.Params)
		}
		if dedup && containsCondition(simplified, cond) {
			continue
		}
		simplified = append(simplified, cond)
	}
	return simplified
}

func conjunctive(conditions []rules.Condition) bool {
	for i := 1; i < len(conditions); i++ {
		if conditions[i].Operator.Or() {
			return false
		}
	}
	return true
}

func pruneEffects(effects []rules.Effect, cat *catalog.Catalog) []rules.Effect {
	out := make([]rules.Effect, 0, len(effects))
	for _, effect := range effects {
		effect.Params = effect.Params.Clone()
		if def, ok := cat.EffectType(effect.Type); ok {
			effect.Params = pruneHiddenParams(def.Params, effect.Params)
		}
		out = append(out, effect)
	}
	return out
}

// pruneHiddenParams removes values for params whose showWhen is not met.
// Unknown params are kept; validation reports them.
func pruneHiddenParams(defs []rules.ParamDefinition, params rules.Params) rules.Params {
	var hidden []string
	for i := range defs {
		if _, set := params[defs[i].ID]; set && !catalog.IsVisible(defs, &defs[i], params) {
			hidden = append(hidden, defs[i].ID)
		}
	}
	for _, id := range hidden {
		delete(params, id)
	}
	return params
}

func containsCondition(conditions []rules.Condition, condition rules.Condition) bool {
	for _, c := range conditions {
		if equalCondition(c, condition) {
			return true
		}
	}
	return false
}

// equalCondition compares conditions ignoring ids and operators; it is only
// used within "and"-joined groups where the operator carries no meaning.
func equalCondition(c1, c2 rules.Condition) bool {
	return c1.Type == c2.Type &&
		c1.Negate == c2.Negate &&
		reflect.DeepEqual(c1.Params, c2.Params)
}

func normalizeOperator(op rules.Operator) rules.Operator {
	if op == "" {
		return rules.OperatorAnd
	}
	return op
}

// DuplicateRules returns groups of rule ids that share a trigger and an
// identical condition graph. Groups keep the input order.
func DuplicateRules(rs []*rules.Rule) ([][]string, error) {
	byKey := make(map[string][]string)
	var order []string
	for _, rule := range rs {
		if rule == nil {
			continue
		}
		key, err := conditionsKey(rule)
		if err != nil {
			return nil, err
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], rule.ID)
	}

	var duplicates [][]string
	for _, key := range order {
		if ids := byKey[key]; len(ids) > 1 {
			duplicates = append(duplicates, ids)
		}
	}
	return duplicates, nil
}

type keyCondition struct {
	Type     string         `json:"type"`
	Negate   bool           `json:"negate"`
	Operator rules.Operator `json:"operator"`
	Params   rules.Params   `json:"params"`
}

type keyGroup struct {
	Operator   rules.Operator `json:"operator"`
	Conditions []keyCondition `json:"conditions"`
}

// conditionsKey generates a key from a rule's trigger and conditions, ignoring ids.
func conditionsKey(rule *rules.Rule) (string, error) {
	groups := normalizeConditions(rule.ConditionGroups)
	serialized, err := json.Marshal(struct {
		Trigger string     `json:"trigger"`
		Groups  []keyGroup `json:"groups"`
	}{rule.Trigger, groups})
	if err != nil {
		return "", fmt.Errorf("error marshaling conditions: %w", err)
	}
	hash := sha256.Sum256(serialized)
	return fmt.Sprintf("%x", hash), nil
}

// normalizeConditions strips ids and, for groups joined purely by "and",
// sorts conditions so their order does not affect the key.
func normalizeConditions(groups []rules.ConditionGroup) []keyGroup {
	out := make([]keyGroup, 0, len(groups))
	for gi, group := range groups {
		kg := keyGroup{Operator: normalizeOperator(group.Operator)}
		if gi == len(groups)-1 {
			kg.Operator = rules.OperatorAnd
		}
		commutative := true
		for i, cond := range group.Conditions {
			op := normalizeOperator(cond.Operator)
			if i == 0 {
				op = rules.OperatorAnd
			} else if op.Or() {
				commutative = false
			}
			kg.Conditions = append(kg.Conditions, keyCondition{
				Type:     cond.Type,
				Negate:   cond.Negate,
				Operator: op,
				Params:   cond.Params,
			})
		}
		if commutative {
			sortConditions(kg.Conditions)
		}
		out = append(out, kg)
	}
	return out
}

func sortConditions(conditions []keyCondition) {
	sort.SliceStable(conditions, func(i, j int) bool {
		if conditions[i].Type != conditions[j].Type {
			return conditions[i].Type < conditions[j].Type
		}
		if conditions[i].Negate != conditions[j].Negate {
			return !conditions[i].Negate
		}
		pi, _ := json.Marshal(conditions[i].Params)
		pj, _ := json.Marshal(conditions[j].Params)
		return string(pi) < string(pj)
	})
}
