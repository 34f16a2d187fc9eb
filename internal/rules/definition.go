package rules

// ParamType is the editor input kind of a parameter.
type ParamType string

const (
	ParamSelect   ParamType = "select"
	ParamNumber   ParamType = "number"
	ParamText     ParamType = "text"
	ParamCheckbox ParamType = "checkbox"
	ParamRange    ParamType = "range"
	// ParamVariable names one of the owning item's user variables.
	ParamVariable ParamType = "variable"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ShowWhen makes a parameter visible only while the sibling Parameter holds one of Values.
type ShowWhen struct {
	Parameter string   `json:"parameter"`
	Values    []string `json:"values"`
}

// OptionsFrom declares options that depend on the value of a sibling parameter.
type OptionsFrom struct {
	Parameter string              `json:"parameter"`
	Options   map[string][]Option `json:"options"`
}

type ParamDefinition struct {
	ID          string       `json:"id"`
	Type        ParamType    `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"description,omitempty"`
	Options     []Option     `json:"options,omitempty"`
	OptionsFrom *OptionsFrom `json:"optionsFrom,omitempty"`
	Default     *Value       `json:"default,omitempty"`
	ShowWhen    *ShowWhen    `json:"showWhen,omitempty"`
	Min         *float64     `json:"min,omitempty"`
	Max         *float64     `json:"max,omitempty"`
	// Variables allows user variables and game variables in place of a literal.
	Variables bool `json:"variables,omitempty"`
	Optional  bool `json:"optional,omitempty"`

	// OptionsFunc computes options from sibling values. It takes precedence
	// over OptionsFrom and Options and is only available to Go callers.
	OptionsFunc func(values Params) []Option `json:"-"`
}

// TriggerDefinition identifies a game event a rule reacts to.
type TriggerDefinition struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// TypeDefinition is the shared shape of condition and effect catalog entries.
type TypeDefinition struct {
	ID                 string            `json:"id"`
	Label              string            `json:"label"`
	Description        string            `json:"description"`
	ApplicableTriggers []string          `json:"applicableTriggers"`
	Params             []ParamDefinition `json:"params"`
	Category           string            `json:"category"`
}

// AppliesTo reports whether the definition may be used under trigger.
func (d *TypeDefinition) AppliesTo(trigger string) bool {
	for _, t := range d.ApplicableTriggers {
		if t == trigger {
			return true
		}
	}
	return false
}

// Param returns the parameter definition with the given id.
func (d *TypeDefinition) Param(id string) (*ParamDefinition, bool) {
	for i := range d.Params {
		if d.Params[i].ID == id {
			return &d.Params[i], true
		}
	}
	return nil, false
}

type ConditionTypeDefinition struct {
	TypeDefinition
}

type EffectTypeDefinition struct {
	TypeDefinition
}
