// internal/runtime/runtime.go

package runtime

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/rules"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoPredicate       = errors.New("no predicate registered")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrUnknownGameVar    = errors.New("unknown game variable")
	ErrUnresolvableValue = errors.New("value cannot be resolved to a number")
	ErrUnrollableRange   = errors.New("range cannot be rolled")
)

// ProbabilityVar is the game variable that scales chance numerators of random
// groups that respect probability modifiers.
const ProbabilityVar = "probabilities_normal"

// Env is the game-state snapshot a rule is simulated against.
type Env struct {
	Trigger   string             `json:"trigger"`
	Game      map[string]float64 `json:"game"`
	Facts     map[string]any     `json:"facts"`
	Variables map[string]float64 `json:"variables"`

	Rand *rand.Rand `json:"-"`
}

// NewEnv returns an empty snapshot for trigger. A zero seed gives a random seed.
func NewEnv(trigger string, seed uint64) *Env {
	env := &Env{
		Trigger:   trigger,
		Game:      map[string]float64{},
		Facts:     map[string]any{},
		Variables: map[string]float64{},
	}
	env.Seed(seed)
	return env
}

func (e *Env) Seed(seed uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	e.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (e *Env) rng() *rand.Rand {
	if e.Rand == nil {
		e.Seed(0)
	}
	return e.Rand
}

// Fact returns a string fact, or "" when unset.
func (e *Env) Fact(name string) string {
	if v, ok := e.Facts[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// Resolve turns a parameter value into a number: game variables are scaled
// and offset, ranges roll an integer between their bounds.
func (e *Env) Resolve(v rules.Value) (float64, error) {
	switch v.Kind() {
	case rules.KindVariable:
		name, _ := v.VariableName()
		n, ok := e.Variables[name]
		if !ok {
			return 0, fmt.Errorf("%w '%s'", ErrUnknownVariable, name)
		}
		return n, nil
	case rules.KindGameVar:
		gv := v.GameVar()
		n, ok := e.Game[gv.ID]
		if !ok {
			return 0, fmt.Errorf("%w '%s'", ErrUnknownGameVar, gv.ID)
		}
		return n*gv.Multiplier + gv.Offset, nil
	case rules.KindRange:
		return e.roll(v.Range())
	case rules.KindBool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	n, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrUnresolvableValue, v.String())
	}
	return n, nil
}

func (e *Env) roll(r rules.Range) (float64, error) {
	lo, hi := math.Ceil(r.Min), math.Floor(r.Max)
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, fmt.Errorf("%w: %g..%g", ErrUnrollableRange, r.Min, r.Max)
	}
	if hi < lo {
		return r.Min, nil
	}
	if hi-lo >= math.MaxInt32 {
		return 0, fmt.Errorf("%w: %g..%g", ErrUnrollableRange, r.Min, r.Max)
	}
	return lo + float64(e.rng().IntN(int(hi-lo)+1)), nil
}

// ResolveParams resolves every param. Numeric encodings become float64,
// other literals keep their string or bool form.
func (e *Env) ResolveParams(params rules.Params) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for id, v := range params {
		switch v.Kind() {
		case rules.KindString:
			out[id] = v.Text()
		case rules.KindBool:
			out[id] = v.Bool()
		case rules.KindNone:
			out[id] = nil
		default:
			n, err := e.Resolve(v)
			if err != nil {
				return nil, fmt.Errorf("param '%s': %w", id, err)
			}
			out[id] = n
		}
	}
	return out, nil
}

// Predicate evaluates one condition type against the environment.
type Predicate func(cond rules.Condition, env *Env) (bool, error)

// Engine evaluates rules with a registry of condition predicates. When it
// has a catalog, unset params take their catalog defaults before evaluation.
type Engine struct {
	predicates map[string]Predicate
	catalog    *catalog.Catalog
}

// NewEngine returns an engine with the built-in predicates registered. cat may
// be nil, in which case params are used exactly as written.
func NewEngine(cat *catalog.Catalog) *Engine {
	e := &Engine{predicates: make(map[string]Predicate), catalog: cat}
	registerBuiltins(e)
	return e
}

// Register adds or replaces the predicate for a condition type.
func (e *Engine) Register(conditionType string, p Predicate) {
	e.predicates[conditionType] = p
}

// ResolvedEffect is an effect with its parameters resolved against the environment.
type ResolvedEffect struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Params        map[string]any `json:"params"`
	CustomMessage string         `json:"customMessage,omitempty"`
	RandomGroup   string         `json:"randomGroup,omitempty"`
}

// Roll records the outcome of one random group.
type Roll struct {
	GroupID     string  `json:"groupId"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	Hit         bool    `json:"hit"`
}

type Result struct {
	RuleID  string           `json:"ruleId"`
	Fired   bool             `json:"fired"`
	Effects []ResolvedEffect `json:"effects,omitempty"`
	Rolls   []Roll           `json:"rolls,omitempty"`
}

// Evaluate simulates rule against env. A rule fires when env's trigger matches
// and its condition groups pass; its effects are then resolved and each
// random group is rolled.
func (e *Engine) Evaluate(rule *rules.Rule, env *Env) (Result, error) {
	result := Result{}
	if rule == nil {
		return result, nil
	}
	result.RuleID = rule.ID
	if rule.Trigger != env.Trigger {
		return result, nil
	}

	passed, err := e.evaluateGroups(rule.ConditionGroups, env)
	if err != nil {
		return result, fmt.Errorf("rule %s: %w", rule.ID, err)
	}
	log.Debug().Str("rule", rule.ID).Bool("passed", passed).Msg("Evaluated conditions")
	if !passed {
		return result, nil
	}
	result.Fired = true

	for _, effect := range rule.Effects {
		resolved, err := e.resolveEffect(effect, env, "")
		if err != nil {
			return result, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		result.Effects = append(result.Effects, resolved)
	}

	for _, group := range rule.RandomGroups {
		roll, err := rollGroup(group, env)
		if err != nil {
			return result, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		result.Rolls = append(result.Rolls, roll)
		if !roll.Hit {
			continue
		}
		for _, effect := range group.Effects {
			resolved, err := e.resolveEffect(effect, env, group.ID)
			if err != nil {
				return result, fmt.Errorf("rule %s: %w", rule.ID, err)
			}
			result.Effects = append(result.Effects, resolved)
		}
	}
	return result, nil
}

// EvaluateAll simulates every rule in order and returns the rules that fired.
func (e *Engine) EvaluateAll(rs []*rules.Rule, env *Env) ([]Result, error) {
	var fired []Result
	for _, rule := range rs {
		res, err := e.Evaluate(rule, env)
		if err != nil {
			return fired, err
		}
		if res.Fired {
			fired = append(fired, res)
		}
	}
	return fired, nil
}

// evaluateGroups folds groups left to right; each group's operator joins it
// to the next. No groups means the rule always passes.
func (e *Engine) evaluateGroups(groups []rules.ConditionGroup, env *Env) (bool, error) {
	if len(groups) == 0 {
		return true, nil
	}
	result, err := e.evaluateGroup(groups[0], env)
	if err != nil {
		return false, err
	}
	for i := 1; i < len(groups); i++ {
		next, err := e.evaluateGroup(groups[i], env)
		if err != nil {
			return false, err
		}
		result = combine(groups[i-1].Operator, result, next)
	}
	return result, nil
}

// evaluateGroup folds conditions left to right; each condition's operator
// joins it to the previous one.
func (e *Engine) evaluateGroup(group rules.ConditionGroup, env *Env) (bool, error) {
	result := true
	for i, cond := range group.Conditions {
		value, err := e.evaluateCondition(cond, env)
		if err != nil {
			return false, err
		}
		if i == 0 {
			result = value
			continue
		}
		result = combine(cond.Operator, result, value)
	}
	return result, nil
}

func combine(op rules.Operator, a, b bool) bool {
	if op.Or() {
		return a || b
	}
	return a && b
}

func (e *Engine) evaluateCondition(cond rules.Condition, env *Env) (bool, error) {
	predicate, ok := e.predicates[cond.Type]
	if !ok {
		return false, fmt.Errorf("%w for condition '%s'", ErrNoPredicate, cond.Type)
	}
	if e.catalog != nil {
		if def, ok := e.catalog.ConditionType(cond.Type); ok {
			cond.Params = catalog.ApplyDefaults(def.Params, cond.Params)
		}
	}
	value, err := predicate(cond, env)
	if err != nil {
		return false, fmt.Errorf("condition %s (%s): %w", cond.ID, cond.Type, err)
	}
	if cond.Negate {
		value = !value
	}
	return value, nil
}

func (e *Engine) resolveEffect(effect rules.Effect, env *Env, groupID string) (ResolvedEffect, error) {
	values := effect.Params
	if e.catalog != nil {
		if def, ok := e.catalog.EffectType(effect.Type); ok {
			values = catalog.ApplyDefaults(def.Params, values)
		}
	}
	params, err := env.ResolveParams(values)
	if err != nil {
		return ResolvedEffect{}, fmt.Errorf("effect %s (%s): %w", effect.ID, effect.Type, err)
	}
	return ResolvedEffect{
		ID:            effect.ID,
		Type:          effect.Type,
		Params:        params,
		CustomMessage: effect.CustomMessage,
		RandomGroup:   groupID,
	}, nil
}

func rollGroup(group rules.RandomGroup, env *Env) (Roll, error) {
	numerator, err := env.Resolve(group.ChanceNumerator)
	if err != nil {
		return Roll{}, fmt.Errorf("random group %s numerator: %w", group.ID, err)
	}
	denominator, err := env.Resolve(group.ChanceDenominator)
	if err != nil {
		return Roll{}, fmt.Errorf("random group %s denominator: %w", group.ID, err)
	}
	if group.RespectProbabilityVars {
		if scale, ok := env.Game[ProbabilityVar]; ok {
			numerator *= scale
		}
	}
	roll := Roll{GroupID: group.ID, Numerator: numerator, Denominator: denominator}
	if denominator > 0 {
		roll.Hit = env.rng().Float64() < numerator/denominator
	}
	log.Debug().
		Str("group", group.ID).
		Float64("numerator", numerator).
		Float64("denominator", denominator).
		Bool("hit", roll.Hit).
		Msg("Rolled random group")
	return roll, nil
}
