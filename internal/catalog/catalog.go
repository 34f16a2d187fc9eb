// Package catalog holds the trigger, condition and effect definitions that rule
// graphs reference. The definitions are configuration data; the package only
// indexes them and answers applicability and parameter-visibility questions.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"jokerforge/forge/internal/rules"

	"github.com/rs/zerolog/log"
)

//go:embed default.json
var defaultCatalog []byte

var ErrDuplicateID = errors.New("duplicate catalog id")

// Document is the on-disk catalog format.
type Document struct {
	Triggers   []rules.TriggerDefinition       `json:"triggers"`
	Conditions []rules.ConditionTypeDefinition `json:"conditions"`
	Effects    []rules.EffectTypeDefinition    `json:"effects"`
}

type Catalog struct {
	triggers   []rules.TriggerDefinition
	conditions []rules.ConditionTypeDefinition
	effects    []rules.EffectTypeDefinition

	triggerIndex   map[string]int
	conditionIndex map[string]int
	effectIndex    map[string]int
}

// New indexes the given definitions, preserving their order.
func New(doc Document) (*Catalog, error) {
	c := &Catalog{
		triggers:       doc.Triggers,
		conditions:     doc.Conditions,
		effects:        doc.Effects,
		triggerIndex:   make(map[string]int, len(doc.Triggers)),
		conditionIndex: make(map[string]int, len(doc.Conditions)),
		effectIndex:    make(map[string]int, len(doc.Effects)),
	}
	for i, t := range doc.Triggers {
		if err := indexID(c.triggerIndex, "trigger", t.ID, i); err != nil {
			return nil, err
		}
	}
	for i, d := range doc.Conditions {
		if err := indexID(c.conditionIndex, "condition", d.ID, i); err != nil {
			return nil, err
		}
	}
	for i, d := range doc.Effects {
		if err := indexID(c.effectIndex, "effect", d.ID, i); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func indexID(index map[string]int, kind, id string, i int) error {
	if id == "" {
		return fmt.Errorf("%s definition %d has no id", kind, i)
	}
	if _, exists := index[id]; exists {
		return fmt.Errorf("%w: %s '%s'", ErrDuplicateID, kind, id)
	}
	index[id] = i
	return nil
}

// Load reads a catalog document from r.
func Load(r io.Reader) (*Catalog, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	c, err := New(doc)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("triggers", len(doc.Triggers)).
		Int("conditions", len(doc.Conditions)).
		Int("effects", len(doc.Effects)).
		Msg("Loaded catalog")
	return c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	var doc Document
	if err := json.Unmarshal(defaultCatalog, &doc); err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	c, err := New(doc)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

func (c *Catalog) Triggers() []rules.TriggerDefinition { return c.triggers }

func (c *Catalog) Trigger(id string) (*rules.TriggerDefinition, bool) {
	i, ok := c.triggerIndex[id]
	if !ok {
		return nil, false
	}
	return &c.triggers[i], true
}

func (c *Catalog) ConditionType(id string) (*rules.ConditionTypeDefinition, bool) {
	i, ok := c.conditionIndex[id]
	if !ok {
		return nil, false
	}
	return &c.conditions[i], true
}

func (c *Catalog) EffectType(id string) (*rules.EffectTypeDefinition, bool) {
	i, ok := c.effectIndex[id]
	if !ok {
		return nil, false
	}
	return &c.effects[i], true
}

// ConditionsFor returns the condition types usable under trigger, in catalog order.
func (c *Catalog) ConditionsFor(trigger string) []rules.ConditionTypeDefinition {
	var out []rules.ConditionTypeDefinition
	for _, d := range c.conditions {
		if d.AppliesTo(trigger) {
			out = append(out, d)
		}
	}
	return out
}

// EffectsFor returns the effect types usable under trigger, in catalog order.
func (c *Catalog) EffectsFor(trigger string) []rules.EffectTypeDefinition {
	var out []rules.EffectTypeDefinition
	for _, d := range c.effects {
		if d.AppliesTo(trigger) {
			out = append(out, d)
		}
	}
	return out
}
