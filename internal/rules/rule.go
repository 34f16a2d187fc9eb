// internal/rules/rule.go

package rules

// Operator joins adjacent condition groups, or a condition to the one before it.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// Valid reports whether op is one of the supported logical operators. The empty
// operator is accepted and treated as "and".
func (op Operator) Valid() bool {
	switch op {
	case "", OperatorAnd, OperatorOr:
		return true
	}
	return false
}

// Or reports whether op is the "or" operator.
func (op Operator) Or() bool {
	return op == OperatorOr
}

// Position is the rule block's location on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rule is a trigger followed by condition groups, effects and random groups.
type Rule struct {
	ID              string           `json:"id" jsonschema:"required"`
	Trigger         string           `json:"trigger" jsonschema:"required,description=Trigger definition id the rule reacts to"`
	ConditionGroups []ConditionGroup `json:"conditionGroups"`
	Effects         []Effect         `json:"effects"`
	RandomGroups    []RandomGroup    `json:"randomGroups,omitempty"`
	Position        Position         `json:"position"`
}

// ConditionGroup is an ordered list of conditions. Operator joins this group
// with the group that follows it.
type ConditionGroup struct {
	ID         string      `json:"id"`
	Operator   Operator    `json:"operator" jsonschema:"enum=and,enum=or"`
	Conditions []Condition `json:"conditions"`
}

// Condition references a condition type from the catalog. Operator joins the
// condition to the previous one in its group.
type Condition struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Negate   bool     `json:"negate,omitempty"`
	Operator Operator `json:"operator,omitempty" jsonschema:"enum=and,enum=or"`
	Params   Params   `json:"params"`
}

// Effect references an effect type from the catalog.
type Effect struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Params        Params `json:"params"`
	CustomMessage string `json:"customMessage,omitempty"`
}

// RandomGroup bundles effects that only apply when a
// ChanceNumerator in ChanceDenominator roll succeeds.
type RandomGroup struct {
	ID                     string   `json:"id"`
	ChanceNumerator        Value    `json:"chance_numerator"`
	ChanceDenominator      Value    `json:"chance_denominator"`
	RespectProbabilityVars bool     `json:"respect_probability_vars,omitempty"`
	CustomKey              string   `json:"custom_key,omitempty"`
	Effects                []Effect `json:"effects"`
}

// AllEffects returns the rule's direct effects followed by those of every random group.
func (r *Rule) AllEffects() []Effect {
	all := make([]Effect, 0, len(r.Effects))
	all = append(all, r.Effects...)
	for _, group := range r.RandomGroups {
		all = append(all, group.Effects...)
	}
	return all
}

// AllConditions flattens every condition group.
func (r *Rule) AllConditions() []Condition {
	var all []Condition
	for _, group := range r.ConditionGroups {
		all = append(all, group.Conditions...)
	}
	return all
}

// Empty reports whether the rule would do nothing when it fires.
func (r *Rule) Empty() bool {
	return len(r.AllEffects()) == 0
}
