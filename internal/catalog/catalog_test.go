package catalog

import (
	"strings"
	"testing"

	"jokerforge/forge/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookups(t *testing.T) {
	c := Default()

	trigger, ok := c.Trigger("hand_played")
	require.True(t, ok)
	assert.Equal(t, "When a Hand is Played", trigger.Label)

	_, ok = c.ConditionType("hand_type")
	assert.True(t, ok)
	effect, ok := c.EffectType("level_up_hand")
	require.True(t, ok)
	assert.Contains(t, effect.Label, "BUGGY BUT WORKS")

	_, ok = c.EffectType("missing")
	assert.False(t, ok)
}

func TestApplicability(t *testing.T) {
	c := Default()

	ids := func(defs []rules.ConditionTypeDefinition) []string {
		var out []string
		for _, d := range defs {
			out = append(out, d.ID)
		}
		return out
	}
	assert.Contains(t, ids(c.ConditionsFor("card_scored")), "card_suit")
	assert.NotContains(t, ids(c.ConditionsFor("hand_played")), "card_suit")

	for _, e := range c.EffectsFor("passive") {
		t.Errorf("no default effect applies to passive, got %s", e.ID)
	}
}

func TestLoad_DuplicateIDs(t *testing.T) {
	doc := `{"triggers":[{"id":"a"},{"id":"a"}]}`
	_, err := Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = Load(strings.NewReader(`{"triggers":[{"label":"no id"}]}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestVisibleParams_ShowWhen(t *testing.T) {
	c := Default()
	suit, ok := c.ConditionType("card_suit")
	require.True(t, ok)

	visible := func(values rules.Params) []string {
		var out []string
		for _, p := range VisibleParams(suit.Params, values) {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"suit_type", "specific_suit"}, visible(rules.Params{}), "default suit_type is specific")
	assert.Equal(t, []string{"suit_type", "suit_group"}, visible(rules.Params{"suit_type": rules.String("group")}))
}

func TestVisibleParams_NestedHidden(t *testing.T) {
	defs := []rules.ParamDefinition{
		{ID: "mode", Type: rules.ParamSelect, Options: []rules.Option{{Value: "a"}, {Value: "b"}}},
		{ID: "sub", Type: rules.ParamSelect, ShowWhen: &rules.ShowWhen{Parameter: "mode", Values: []string{"b"}}},
		{ID: "leaf", Type: rules.ParamNumber, ShowWhen: &rules.ShowWhen{Parameter: "sub", Values: []string{"x"}}},
	}
	values := rules.Params{"mode": rules.String("a"), "sub": rules.String("x")}
	assert.False(t, IsVisible(defs, &defs[2], values), "leaf follows its hidden parent")

	values["mode"] = rules.String("b")
	assert.True(t, IsVisible(defs, &defs[2], values))
}

func TestResolveOptions(t *testing.T) {
	c := Default()
	create, ok := c.EffectType("create_consumable")
	require.True(t, ok)
	card, ok := create.Param("specific_card")
	require.True(t, ok)

	planets := ResolveOptions(card, rules.Params{"set": rules.String("Planet")})
	require.NotEmpty(t, planets)
	assert.Equal(t, "c_mercury", planets[1].Value)

	fallback := ResolveOptions(card, rules.Params{"set": rules.String("Unknown")})
	assert.Equal(t, card.Options, fallback)

	card.OptionsFunc = func(values rules.Params) []rules.Option {
		return []rules.Option{{Value: values.Text("set") + "_only"}}
	}
	assert.Equal(t, "Tarot_only", ResolveOptions(card, rules.Params{"set": rules.String("Tarot")})[0].Value)
}

func TestDefaultParams(t *testing.T) {
	c := Default()
	levelUp, ok := c.EffectType("level_up_hand")
	require.True(t, ok)

	params := DefaultParams(levelUp.Params)
	assert.Equal(t, "current", params.Text("hand_selection"))
	_, hasSpecific := params["specific_hand"]
	assert.False(t, hasSpecific, "hidden params get no default")
	assert.Equal(t, "1", params.Text("value"))

	suit, ok := c.ConditionType("card_suit")
	require.True(t, ok)
	params = DefaultParams(suit.Params)
	assert.Equal(t, "Spades", params.Text("specific_suit"), "first option is the default select value")
}
