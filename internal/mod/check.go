package mod

import (
	"fmt"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/preprocessor"
	"jokerforge/forge/internal/validation"

	"github.com/rs/zerolog/log"
)

// Validate runs the field checks over the whole project and returns every
// finding that carries a message. Struct-tag findings come first.
func (p *Project) Validate() []validation.Result {
	results := validation.ValidateStruct(p)

	add := func(path string, r validation.Result) {
		if r.Message == "" {
			return
		}
		r.Field = path + "." + r.Field
		results = append(results, r)
	}

	for _, ref := range p.Items() {
		item := ref.Item
		add(ref.Path, validation.ValidateName(item.Name))
		add(ref.Path, validation.ValidateDescription(item.Description))

		var declared []string
		for i, v := range item.UserVariables {
			add(fmt.Sprintf("%s.userVariables[%d]", ref.Path, i), validation.ValidateVariableName(v.Name, declared))
			declared = append(declared, v.Name)
		}
		for _, rule := range item.Rules {
			for _, effect := range rule.AllEffects() {
				add(fmt.Sprintf("%s.rules[%s].effects[%s]", ref.Path, rule.ID, effect.ID), validation.ValidateCustomMessage(effect.CustomMessage))
			}
		}
	}
	for i, b := range p.Boosters {
		path := fmt.Sprintf("boosters[%d]", i)
		add(path, validation.ValidateName(b.Name))
		add(path, validation.ValidateDescription(b.Description))
	}
	return results
}

// BindVariables turns literal parameter values naming an item's own user
// variables into variable references. It returns the number of values bound.
func (p *Project) BindVariables(cat *catalog.Catalog) int {
	bound := 0
	for _, ref := range p.Items() {
		bound += preprocessor.BindVariables(ref.Item.Rules, cat, ref.Item.VariableNames())
	}
	return bound
}

// CheckRules validates every item's rules against cat and the item's own
// variables.
func (p *Project) CheckRules(cat *catalog.Catalog) preprocessor.Issues {
	var issues preprocessor.Issues
	for _, ref := range p.Items() {
		found := preprocessor.ValidateRules(ref.Item.Rules, cat, ref.Item.VariableNames())
		for i := range found {
			found[i].Item = ref.Path
		}
		if len(found) > 0 {
			log.Debug().Str("item", ref.Path).Int("issues", len(found)).Msg("Rule issues found")
		}
		issues = append(issues, found...)
	}
	return issues
}

// DuplicateGroup lists rules of one item that share a trigger and an
// identical condition graph.
type DuplicateGroup struct {
	Item    string   `json:"item"`
	RuleIDs []string `json:"ruleIds"`
}

// DuplicateRules looks for duplicate rules within each item. Rules of
// different items never duplicate each other.
func (p *Project) DuplicateRules() ([]DuplicateGroup, error) {
	var groups []DuplicateGroup
	for _, ref := range p.Items() {
		dups, err := preprocessor.DuplicateRules(ref.Item.Rules)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.Path, err)
		}
		for _, ids := range dups {
			groups = append(groups, DuplicateGroup{Item: ref.Path, RuleIDs: ids})
		}
	}
	return groups, nil
}

// Normalize replaces every item's rules with their normalized form.
func (p *Project) Normalize(cat *catalog.Catalog) {
	for _, ref := range p.Items() {
		ref.Item.Rules = preprocessor.NormalizeRules(ref.Item.Rules, cat)
	}
}
