// Package mod models the content a project authors: jokers, consumables,
// enhancements and booster packs, each carrying the rules that drive it.
package mod

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"jokerforge/forge/internal/naming"
	"jokerforge/forge/internal/rules"
)

// Metadata identifies the mod a project builds.
type Metadata struct {
	ID          string   `json:"id" validate:"required,luaident,max=50" jsonschema:"required"`
	Name        string   `json:"name" validate:"required,max=50" jsonschema:"required"`
	Author      []string `json:"author" validate:"required,min=1,dive,required"`
	Description string   `json:"description" validate:"max=500"`
	Prefix      string   `json:"prefix" validate:"required,luaident,max=10" jsonschema:"required,description=Prefix prepended to every item key"`
	Version     string   `json:"version" validate:"required"`
	Priority    int      `json:"priority"`
}

// UserVariable is a named counter stored on an item and read or written by its rules.
type UserVariable struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" validate:"required,luaident,max=30"`
	InitialValue float64 `json:"initialValue"`
	Description  string  `json:"description,omitempty"`
}

// Base holds what every rule-driven item has in common.
type Base struct {
	ID            string         `json:"id" validate:"required"`
	Name          string         `json:"name" validate:"required,max=50"`
	Description   string         `json:"description" validate:"required,max=500"`
	Key           string         `json:"objectKey,omitempty" validate:"omitempty,luaident"`
	ImagePath     string         `json:"imagePath,omitempty"`
	Rules         []*rules.Rule  `json:"rules,omitempty"`
	UserVariables []UserVariable `json:"userVariables,omitempty" validate:"dive"`
}

// VariableNames lists the names of the item's user variables in declaration order.
func (b *Base) VariableNames() []string {
	names := make([]string, 0, len(b.UserVariables))
	for _, v := range b.UserVariables {
		names = append(names, v.Name)
	}
	return names
}

type Rarity int

const (
	RarityCommon Rarity = iota + 1
	RarityUncommon
	RarityRare
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityLegendary:
		return "Legendary"
	}
	return fmt.Sprintf("Rarity(%d)", int(r))
}

type Joker struct {
	Base
	Rarity          Rarity `json:"rarity" validate:"min=1,max=4" jsonschema:"enum=1,enum=2,enum=3,enum=4"`
	Cost            int    `json:"cost" validate:"min=0"`
	BlueprintCompat bool   `json:"blueprint_compat"`
	EternalCompat   bool   `json:"eternal_compat"`
	Unlocked        bool   `json:"unlocked"`
	Discovered      bool   `json:"discovered"`
}

type Consumable struct {
	Base
	Set  string `json:"set" validate:"required,oneof=Tarot Planet Spectral" jsonschema:"enum=Tarot,enum=Planet,enum=Spectral"`
	Cost int    `json:"cost" validate:"min=0"`
}

type Enhancement struct {
	Base
	AnySuit      bool `json:"any_suit,omitempty"`
	ReplaceBase  bool `json:"replace_base_card,omitempty"`
	NoRank       bool `json:"no_rank,omitempty"`
	NoSuit       bool `json:"no_suit,omitempty"`
	AlwaysScores bool `json:"always_scores,omitempty"`
}

// BoosterKind is the card type a booster pack offers.
type BoosterKind string

const (
	BoosterJoker    BoosterKind = "joker"
	BoosterTarot    BoosterKind = "tarot"
	BoosterPlanet   BoosterKind = "planet"
	BoosterSpectral BoosterKind = "spectral"
	BoosterStandard BoosterKind = "playing_card"
)

type BoosterConfig struct {
	Extra  int `json:"extra" validate:"min=1"`
	Choose int `json:"choose" validate:"min=1,ltefield=Extra"`
}

type Booster struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name" validate:"required,max=50"`
	Description string        `json:"description" validate:"required,max=500"`
	Key         string        `json:"objectKey,omitempty" validate:"omitempty,luaident"`
	Kind        BoosterKind   `json:"booster_type" validate:"required,oneof=joker tarot planet spectral playing_card" jsonschema:"enum=joker,enum=tarot,enum=planet,enum=spectral,enum=playing_card"`
	Cost        int           `json:"cost" validate:"min=0"`
	Weight      float64       `json:"weight" validate:"min=0"`
	Config      BoosterConfig `json:"config"`
	Discovered  bool          `json:"discovered"`
}

// Project is the document the editor saves and the command-line tool reads.
type Project struct {
	Metadata     Metadata      `json:"metadata"`
	Jokers       []Joker       `json:"jokers" validate:"dive"`
	Consumables  []Consumable  `json:"consumables,omitempty" validate:"dive"`
	Enhancements []Enhancement `json:"enhancements,omitempty" validate:"dive"`
	Boosters     []Booster     `json:"boosters,omitempty" validate:"dive"`
}

// Load decodes a project document.
var ErrNullRule = errors.New("rule entry is null")

func Load(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	for _, ref := range p.Items() {
		for i, rule := range ref.Item.Rules {
			if rule == nil {
				return nil, fmt.Errorf("%s.rules[%d]: %w", ref.Path, i, ErrNullRule)
			}
		}
	}
	return &p, nil
}

func LoadFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// ItemRef points at one rule-driven item together with its document path.
type ItemRef struct {
	Path string
	Item *Base
}

// Items returns every rule-driven item, jokers first, then consumables and
// enhancements.
func (p *Project) Items() []ItemRef {
	var refs []ItemRef
	for i := range p.Jokers {
		refs = append(refs, ItemRef{Path: fmt.Sprintf("jokers[%d]", i), Item: &p.Jokers[i].Base})
	}
	for i := range p.Consumables {
		refs = append(refs, ItemRef{Path: fmt.Sprintf("consumables[%d]", i), Item: &p.Consumables[i].Base})
	}
	for i := range p.Enhancements {
		refs = append(refs, ItemRef{Path: fmt.Sprintf("enhancements[%d]", i), Item: &p.Enhancements[i].Base})
	}
	return refs
}

// AllRules collects the rules of every item in Items order.
func (p *Project) AllRules() []*rules.Rule {
	var all []*rules.Rule
	for _, ref := range p.Items() {
		all = append(all, ref.Item.Rules...)
	}
	return all
}

// AssignKeys fills in missing item keys from item names. Keys are unique per
// item kind; keys already set are kept.
func (p *Project) AssignKeys() {
	assign := func(items []*string, names []string) {
		taken := make(map[string]bool)
		for _, key := range items {
			if *key != "" {
				taken[*key] = true
			}
		}
		for i, key := range items {
			if *key == "" {
				*key = naming.UniqueKey(names[i], taken)
				taken[*key] = true
			}
		}
	}

	var keys []*string
	var names []string
	for i := range p.Jokers {
		keys = append(keys, &p.Jokers[i].Key)
		names = append(names, p.Jokers[i].Name)
	}
	assign(keys, names)

	keys, names = nil, nil
	for i := range p.Consumables {
		keys = append(keys, &p.Consumables[i].Key)
		names = append(names, p.Consumables[i].Name)
	}
	assign(keys, names)

	keys, names = nil, nil
	for i := range p.Enhancements {
		keys = append(keys, &p.Enhancements[i].Key)
		names = append(names, p.Enhancements[i].Name)
	}
	assign(keys, names)

	keys, names = nil, nil
	for i := range p.Boosters {
		keys = append(keys, &p.Boosters[i].Key)
		names = append(names, p.Boosters[i].Name)
	}
	assign(keys, names)
}
