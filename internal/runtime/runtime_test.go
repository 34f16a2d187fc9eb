package runtime

import (
	"testing"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handRule(t *testing.T, hand string) *rules.Rule {
	t.Helper()
	rule := rules.NewRule("hand_played", rules.Position{})
	_, err := rule.AddCondition("", "hand_type", rules.Params{"value": rules.String(hand)})
	require.NoError(t, err)
	rule.AddEffect("add_mult", rules.Params{"value": rules.GameVariable("hand_size", 2, 1)})
	return rule
}

func TestEnv_Resolve(t *testing.T) {
	env := NewEnv("hand_played", 42)
	env.Game["hand_size"] = 8
	env.Variables["counter"] = 3

	n, err := env.Resolve(rules.GameVariable("hand_size", 0.5, 2))
	require.NoError(t, err)
	assert.Equal(t, 6.0, n)

	n, err = env.Resolve(rules.Variable("counter"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, n)

	n, err = env.Resolve(rules.String("7"))
	require.NoError(t, err)
	assert.Equal(t, 7.0, n)

	for i := 0; i < 50; i++ {
		n, err = env.Resolve(rules.RangeOf(1, 3))
		require.NoError(t, err)
		assert.Contains(t, []float64{1, 2, 3}, n)
	}

	_, err = env.Resolve(rules.Variable("missing"))
	assert.ErrorIs(t, err, ErrUnknownVariable)
	_, err = env.Resolve(rules.GameVariable("missing", 1, 0))
	assert.ErrorIs(t, err, ErrUnknownGameVar)
	_, err = env.Resolve(rules.String("Flush"))
	assert.ErrorIs(t, err, ErrUnresolvableValue)
}

func TestEngine_Evaluate(t *testing.T) {
	engine := NewEngine(nil)
	env := NewEnv("hand_played", 1)
	env.Game["hand_size"] = 8
	env.Facts[FactHandType] = "Flush"

	res, err := engine.Evaluate(handRule(t, "Flush"), env)
	require.NoError(t, err)
	assert.True(t, res.Fired)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, 17.0, res.Effects[0].Params["value"])

	res, err = engine.Evaluate(handRule(t, "Pair"), env)
	require.NoError(t, err)
	assert.False(t, res.Fired)

	env.Trigger = "round_end"
	res, err = engine.Evaluate(handRule(t, "Flush"), env)
	require.NoError(t, err)
	assert.False(t, res.Fired, "trigger mismatch never fires")
}

func TestEngine_NegateAndOperators(t *testing.T) {
	engine := NewEngine(nil)
	env := NewEnv("hand_played", 1)
	env.Facts[FactHandType] = "Pair"

	rule := rules.NewRule("hand_played", rules.Position{})
	rule.AddEffect("add_chips", rules.Params{"value": rules.Number(10)})
	g1 := rule.AddConditionGroup(rules.OperatorOr)
	c1, err := rule.AddCondition(g1, "hand_type", rules.Params{"value": rules.String("Flush")})
	require.NoError(t, err)
	g2 := rule.AddConditionGroup(rules.OperatorAnd)
	_, err = rule.AddCondition(g2, "hand_type", rules.Params{"value": rules.String("Pair")})
	require.NoError(t, err)

	res, err := engine.Evaluate(rule, env)
	require.NoError(t, err)
	assert.True(t, res.Fired, "false OR true")

	require.NoError(t, rule.SetGroupOperator(g1, rules.OperatorAnd))
	res, err = engine.Evaluate(rule, env)
	require.NoError(t, err)
	assert.False(t, res.Fired, "false AND true")

	require.NoError(t, rule.ToggleNegate(c1))
	res, err = engine.Evaluate(rule, env)
	require.NoError(t, err)
	assert.True(t, res.Fired, "NOT false AND true")

	c3, err := rule.AddCondition(g2, "hand_type", rules.Params{"value": rules.String("Flush")})
	require.NoError(t, err)
	res, err = engine.Evaluate(rule, env)
	require.NoError(t, err)
	assert.False(t, res.Fired, "Pair and Flush within a group")

	require.NoError(t, rule.SetConditionOperator(c3, rules.OperatorOr))
	res, err = engine.Evaluate(rule, env)
	require.NoError(t, err)
	assert.True(t, res.Fired, "Pair or Flush within a group")
}

func TestEngine_BuiltinPredicates(t *testing.T) {
	engine := NewEngine(nil)
	env := NewEnv("card_scored", 1)
	env.Game[GameMoney] = 12
	env.Variables["counter"] = 4
	env.Facts[FactCardSuit] = "Diamonds"

	tests := []struct {
		name   string
		cond   rules.Condition
		expect bool
	}{
		{"money ge", rules.Condition{Type: "player_money", Params: rules.Params{"operator": rules.String("greater_equals"), "value": rules.Number(10)}}, true},
		{"money lt", rules.Condition{Type: "player_money", Params: rules.Params{"operator": rules.String("less_than"), "value": rules.Number(10)}}, false},
		{"variable eq", rules.Condition{Type: "internal_variable", Params: rules.Params{"variable_name": rules.String("counter"), "value": rules.Number(4)}}, true},
		{"compare", rules.Condition{Type: "generic_compare", Params: rules.Params{"value1": rules.Variable("counter"), "operator": rules.String("greater_than"), "value2": rules.GameVariable(GameMoney, 0.25, 0)}}, true},
		{"suit specific", rules.Condition{Type: "card_suit", Params: rules.Params{"suit_type": rules.String("specific"), "specific_suit": rules.String("Hearts")}}, false},
		{"suit group", rules.Condition{Type: "card_suit", Params: rules.Params{"suit_type": rules.String("group"), "suit_group": rules.String("red")}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.evaluateCondition(tt.cond, env)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestEngine_UnknownPredicate(t *testing.T) {
	engine := NewEngine(nil)
	rule := rules.NewRule("hand_played", rules.Position{})
	_, err := rule.AddCondition("", "moon_phase", nil)
	require.NoError(t, err)

	_, err = engine.Evaluate(rule, NewEnv("hand_played", 1))
	assert.ErrorIs(t, err, ErrNoPredicate)

	engine.Register("moon_phase", func(rules.Condition, *Env) (bool, error) { return true, nil })
	res, err := engine.Evaluate(rule, NewEnv("hand_played", 1))
	require.NoError(t, err)
	assert.True(t, res.Fired)
}

func TestEngine_RandomGroups(t *testing.T) {
	engine := NewEngine(nil)
	rule := rules.NewRule("hand_played", rules.Position{})
	always := rule.AddRandomGroup(rules.Number(1), rules.Number(1))
	_, err := rule.AddEffectToRandomGroup(always, "add_dollars", rules.Params{"value": rules.Number(3)})
	require.NoError(t, err)
	never := rule.AddRandomGroup(rules.Number(0), rules.Number(4))
	_, err = rule.AddEffectToRandomGroup(never, "add_dollars", rules.Params{"value": rules.Number(100)})
	require.NoError(t, err)

	res, err := engine.Evaluate(rule, NewEnv("hand_played", 7))
	require.NoError(t, err)
	require.Len(t, res.Rolls, 2)
	assert.True(t, res.Rolls[0].Hit)
	assert.False(t, res.Rolls[1].Hit)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, always, res.Effects[0].RandomGroup)
}

func TestEngine_RespectProbabilityVars(t *testing.T) {
	engine := NewEngine(nil)
	rule := rules.NewRule("hand_played", rules.Position{})
	id := rule.AddRandomGroup(rules.Number(1), rules.Number(2))
	rule.RandomGroups[0].RespectProbabilityVars = true
	_, err := rule.AddEffectToRandomGroup(id, "add_mult", rules.Params{"value": rules.Number(1)})
	require.NoError(t, err)

	env := NewEnv("hand_played", 3)
	env.Game[ProbabilityVar] = 2
	res, err := engine.Evaluate(rule, env)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Rolls[0].Numerator)
	assert.True(t, res.Rolls[0].Hit, "2 in 2 always hits")
}

func TestEngine_EvaluateAll(t *testing.T) {
	engine := NewEngine(nil)
	env := NewEnv("hand_played", 1)
	env.Game["hand_size"] = 5
	env.Facts[FactHandType] = "Pair"

	fired, err := engine.EvaluateAll([]*rules.Rule{handRule(t, "Flush"), handRule(t, "Pair")}, env)
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, 11.0, fired[0].Effects[0].Params["value"])
}

func TestEnv_ResolveUnrollableRange(t *testing.T) {
	env := NewEnv("hand_played", 1)

	_, err := env.Resolve(rules.RangeOf(0, 1e19))
	assert.ErrorIs(t, err, ErrUnrollableRange)

	n, err := env.Resolve(rules.RangeOf(-1000, 1000))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, -1000.0)
	assert.LessOrEqual(t, n, 1000.0)
}

func TestEngine_CatalogDefaults(t *testing.T) {
	rule := rules.NewRule("hand_played", rules.Position{})
	_, err := rule.AddCondition("", "player_money", rules.Params{"value": rules.Number(5)})
	require.NoError(t, err)
	rule.AddEffect("add_chips", rules.Params{})

	env := NewEnv("hand_played", 1)
	env.Game[GameMoney] = 20

	res, err := NewEngine(catalog.Default()).Evaluate(rule, env)
	require.NoError(t, err)
	assert.True(t, res.Fired, "default operator is greater_equals")
	require.Len(t, res.Effects, 1)
	assert.Equal(t, 10.0, res.Effects[0].Params["value"])

	res, err = NewEngine(nil).Evaluate(rule, env)
	require.NoError(t, err)
	assert.False(t, res.Fired, "without a catalog the operator falls back to equals")
}

func TestEngine_NilRule(t *testing.T) {
	res, err := NewEngine(nil).Evaluate(nil, NewEnv("hand_played", 1))
	require.NoError(t, err)
	assert.False(t, res.Fired)
}
