package runtime

import (
	"fmt"

	"jokerforge/forge/internal/rules"
)

// Facts read by the built-in predicates.
const (
	FactHandType = "hand_type"
	FactCardSuit = "card_suit"
)

// GameMoney is the game variable holding the player's money.
const GameMoney = "money"

var suitGroups = map[string][]string{
	"red":   {"Hearts", "Diamonds"},
	"black": {"Spades", "Clubs"},
}

func registerBuiltins(e *Engine) {
	e.Register("hand_type", handType)
	e.Register("card_suit", cardSuit)
	e.Register("player_money", playerMoney)
	e.Register("internal_variable", internalVariable)
	e.Register("generic_compare", genericCompare)
}

func handType(cond rules.Condition, env *Env) (bool, error) {
	return env.Fact(FactHandType) == cond.Params.Text("value"), nil
}

func cardSuit(cond rules.Condition, env *Env) (bool, error) {
	suit := env.Fact(FactCardSuit)
	if cond.Params.Text("suit_type") == "group" {
		for _, s := range suitGroups[cond.Params.Text("suit_group")] {
			if s == suit {
				return true, nil
			}
		}
		return false, nil
	}
	return suit == cond.Params.Text("specific_suit"), nil
}

func playerMoney(cond rules.Condition, env *Env) (bool, error) {
	money, ok := env.Game[GameMoney]
	if !ok {
		return false, fmt.Errorf("%w '%s'", ErrUnknownGameVar, GameMoney)
	}
	return compareParam(cond, env, money, "value")
}

func internalVariable(cond rules.Condition, env *Env) (bool, error) {
	name := cond.Params.Text("variable_name")
	current, ok := env.Variables[name]
	if !ok {
		return false, fmt.Errorf("%w '%s'", ErrUnknownVariable, name)
	}
	return compareParam(cond, env, current, "value")
}

func genericCompare(cond rules.Condition, env *Env) (bool, error) {
	left, err := env.Resolve(cond.Params["value1"])
	if err != nil {
		return false, err
	}
	return compareParam(cond, env, left, "value2")
}

// compareParam compares left against the resolved param using the
// condition's "operator" param, defaulting to equals.
func compareParam(cond rules.Condition, env *Env, left float64, param string) (bool, error) {
	right, err := env.Resolve(cond.Params[param])
	if err != nil {
		return false, err
	}
	op := cond.Params.Text("operator")
	if op == "" {
		op = rules.CompareEquals
	}
	return rules.Compare(op, left, right)
}
