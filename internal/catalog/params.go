package catalog

import (
	"jokerforge/forge/internal/rules"
)

// effectiveValue is the value the editor would show for def: the user's value
// when set, the definition default otherwise.
func effectiveValue(def *rules.ParamDefinition, values rules.Params) (rules.Value, bool) {
	if v, ok := values[def.ID]; ok && !v.IsZero() {
		return v, true
	}
	if def.Default != nil {
		return *def.Default, true
	}
	return rules.Value{}, false
}

// IsVisible evaluates def's showWhen against its siblings. A parameter whose
// controlling sibling is itself hidden is hidden too.
func IsVisible(defs []rules.ParamDefinition, def *rules.ParamDefinition, values rules.Params) bool {
	return isVisible(defs, def, values, len(defs))
}

func isVisible(defs []rules.ParamDefinition, def *rules.ParamDefinition, values rules.Params, depth int) bool {
	if def.ShowWhen == nil {
		return true
	}
	if depth <= 0 {
		return false
	}
	parent := findParam(defs, def.ShowWhen.Parameter)
	if parent == nil {
		return false
	}
	if !isVisible(defs, parent, values, depth-1) {
		return false
	}
	current, ok := effectiveValue(parent, values)
	if !ok {
		return false
	}
	for _, want := range def.ShowWhen.Values {
		if current.String() == want {
			return true
		}
	}
	return false
}

func findParam(defs []rules.ParamDefinition, id string) *rules.ParamDefinition {
	for i := range defs {
		if defs[i].ID == id {
			return &defs[i]
		}
	}
	return nil
}

// VisibleParams returns the definitions currently shown for values.
func VisibleParams(defs []rules.ParamDefinition, values rules.Params) []rules.ParamDefinition {
	var out []rules.ParamDefinition
	for i := range defs {
		if IsVisible(defs, &defs[i], values) {
			out = append(out, defs[i])
		}
	}
	return out
}

// ResolveOptions returns the options of a select parameter for the current
// sibling values.
func ResolveOptions(def *rules.ParamDefinition, values rules.Params) []rules.Option {
	if def.OptionsFunc != nil {
		return def.OptionsFunc(values)
	}
	if def.OptionsFrom != nil {
		if v, ok := values[def.OptionsFrom.Parameter]; ok {
			if opts, ok := def.OptionsFrom.Options[v.String()]; ok {
				return opts
			}
		}
	}
	return def.Options
}

// DefaultParams builds the initial params for a new condition or effect.
// Defaults are applied in declaration order so later showWhen and optionsFrom
// lookups see earlier defaults.
func DefaultParams(defs []rules.ParamDefinition) rules.Params {
	values := rules.Params{}
	for i := range defs {
		def := &defs[i]
		if !IsVisible(defs, def, values) {
			continue
		}
		if def.Default != nil {
			values[def.ID] = *def.Default
			continue
		}
		switch def.Type {
		case rules.ParamSelect:
			if opts := ResolveOptions(def, values); len(opts) > 0 {
				values[def.ID] = rules.String(opts[0].Value)
			}
		case rules.ParamCheckbox:
			values[def.ID] = rules.Bool(false)
		case rules.ParamNumber:
			if def.Min != nil {
				values[def.ID] = rules.Number(*def.Min)
			} else {
				values[def.ID] = rules.Number(0)
			}
		}
	}
	return values
}

// ApplyDefaults returns a copy of values with every visible parameter that is
// unset filled from its definition default, the way the validator reads it.
func ApplyDefaults(defs []rules.ParamDefinition, values rules.Params) rules.Params {
	out := values.Clone()
	if out == nil {
		out = rules.Params{}
	}
	for i := range defs {
		def := &defs[i]
		if def.Default == nil || !IsVisible(defs, def, out) {
			continue
		}
		if v, ok := out[def.ID]; !ok || v.IsZero() {
			out[def.ID] = *def.Default
		}
	}
	return out
}
