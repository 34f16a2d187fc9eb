package rules

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

func newID() string {
	return uuid.NewString()
}

// NewRule creates an empty rule for trigger at pos.
func NewRule(trigger string, pos Position) *Rule {
	return &Rule{
		ID:              newID(),
		Trigger:         trigger,
		ConditionGroups: []ConditionGroup{},
		Effects:         []Effect{},
		RandomGroups:    []RandomGroup{},
		Position:        pos,
	}
}

// Board is the ordered set of rules owned by one item.
type Board struct {
	Rules []*Rule
}

func (b *Board) Add(rule *Rule) {
	b.Rules = append(b.Rules, rule)
}

// Find returns the rule with the given id.
func (b *Board) Find(id string) (*Rule, error) {
	for _, rule := range b.Rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return nil, fmt.Errorf("rule %s: %w", id, ErrNotFound)
}

func (b *Board) Remove(id string) error {
	for i, rule := range b.Rules {
		if rule.ID == id {
			b.Rules = append(b.Rules[:i], b.Rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule %s: %w", id, ErrNotFound)
}

// Duplicate deep-copies the rule with fresh ids and offsets it on the canvas.
func (b *Board) Duplicate(id string) (*Rule, error) {
	rule, err := b.Find(id)
	if err != nil {
		return nil, err
	}
	clone := rule.Clone()
	clone.Position = Position{X: rule.Position.X + 20, Y: rule.Position.Y + 20}
	b.Rules = append(b.Rules, clone)
	return clone, nil
}

// Clone deep-copies r, assigning new ids to every node.
func (r *Rule) Clone() *Rule {
	clone := &Rule{
		ID:       newID(),
		Trigger:  r.Trigger,
		Position: r.Position,
	}
	clone.ConditionGroups = make([]ConditionGroup, 0, len(r.ConditionGroups))
	for _, group := range r.ConditionGroups {
		g := ConditionGroup{ID: newID(), Operator: group.Operator}
		for _, cond := range group.Conditions {
			cond.ID = newID()
			cond.Params = cond.Params.Clone()
			g.Conditions = append(g.Conditions, cond)
		}
		clone.ConditionGroups = append(clone.ConditionGroups, g)
	}
	clone.Effects = cloneEffects(r.Effects)
	clone.RandomGroups = make([]RandomGroup, 0, len(r.RandomGroups))
	for _, group := range r.RandomGroups {
		group.ID = newID()
		group.Effects = cloneEffects(group.Effects)
		clone.RandomGroups = append(clone.RandomGroups, group)
	}
	return clone
}

func cloneEffects(effects []Effect) []Effect {
	out := make([]Effect, 0, len(effects))
	for _, effect := range effects {
		effect.ID = newID()
		effect.Params = effect.Params.Clone()
		out = append(out, effect)
	}
	return out
}

func (r *Rule) groupIndex(groupID string) (int, error) {
	for i := range r.ConditionGroups {
		if r.ConditionGroups[i].ID == groupID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("condition group %s: %w", groupID, ErrNotFound)
}

func (r *Rule) conditionIndex(conditionID string) (int, int, error) {
	for gi := range r.ConditionGroups {
		for ci := range r.ConditionGroups[gi].Conditions {
			if r.ConditionGroups[gi].Conditions[ci].ID == conditionID {
				return gi, ci, nil
			}
		}
	}
	return -1, -1, fmt.Errorf("condition %s: %w", conditionID, ErrNotFound)
}

// AddConditionGroup appends an empty group and returns its id.
func (r *Rule) AddConditionGroup(op Operator) string {
	if op == "" {
		op = OperatorAnd
	}
	group := ConditionGroup{ID: newID(), Operator: op, Conditions: []Condition{}}
	r.ConditionGroups = append(r.ConditionGroups, group)
	return group.ID
}

func (r *Rule) RemoveConditionGroup(groupID string) error {
	i, err := r.groupIndex(groupID)
	if err != nil {
		return err
	}
	r.ConditionGroups = append(r.ConditionGroups[:i], r.ConditionGroups[i+1:]...)
	return nil
}

func (r *Rule) SetGroupOperator(groupID string, op Operator) error {
	if !op.Valid() {
		return fmt.Errorf("invalid operator '%s'", op)
	}
	i, err := r.groupIndex(groupID)
	if err != nil {
		return err
	}
	r.ConditionGroups[i].Operator = op
	return nil
}

// AddCondition appends a condition to the group. An empty groupID creates a
// new group first, matching how the editor drops a condition onto a bare rule.
func (r *Rule) AddCondition(groupID, conditionType string, params Params) (string, error) {
	if groupID == "" {
		groupID = r.AddConditionGroup(OperatorAnd)
	}
	i, err := r.groupIndex(groupID)
	if err != nil {
		return "", err
	}
	cond := Condition{ID: newID(), Type: conditionType, Params: params.Clone()}
	if cond.Params == nil {
		cond.Params = Params{}
	}
	r.ConditionGroups[i].Conditions = append(r.ConditionGroups[i].Conditions, cond)
	return cond.ID, nil
}

// RemoveCondition deletes the condition and drops its group when it becomes empty.
func (r *Rule) RemoveCondition(conditionID string) error {
	gi, ci, err := r.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	group := &r.ConditionGroups[gi]
	group.Conditions = append(group.Conditions[:ci], group.Conditions[ci+1:]...)
	if len(group.Conditions) == 0 {
		r.ConditionGroups = append(r.ConditionGroups[:gi], r.ConditionGroups[gi+1:]...)
	}
	return nil
}

func (r *Rule) ToggleNegate(conditionID string) error {
	gi, ci, err := r.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	cond := &r.ConditionGroups[gi].Conditions[ci]
	cond.Negate = !cond.Negate
	return nil
}

func (r *Rule) SetConditionOperator(conditionID string, op Operator) error {
	if !op.Valid() {
		return fmt.Errorf("invalid operator '%s'", op)
	}
	gi, ci, err := r.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	r.ConditionGroups[gi].Conditions[ci].Operator = op
	return nil
}

// UpdateConditionParams merges params into the condition's existing params.
func (r *Rule) UpdateConditionParams(conditionID string, params Params) error {
	gi, ci, err := r.conditionIndex(conditionID)
	if err != nil {
		return err
	}
	cond := &r.ConditionGroups[gi].Conditions[ci]
	cond.Params = mergeParams(cond.Params, params)
	return nil
}

func mergeParams(dst, src Params) Params {
	if dst == nil {
		dst = Params{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// effectRef locates an effect either in the rule's effects or a random group.
func (r *Rule) effectRef(effectID string) (*[]Effect, int, error) {
	for i := range r.Effects {
		if r.Effects[i].ID == effectID {
			return &r.Effects, i, nil
		}
	}
	for gi := range r.RandomGroups {
		for i := range r.RandomGroups[gi].Effects {
			if r.RandomGroups[gi].Effects[i].ID == effectID {
				return &r.RandomGroups[gi].Effects, i, nil
			}
		}
	}
	return nil, -1, fmt.Errorf("effect %s: %w", effectID, ErrNotFound)
}

func (r *Rule) AddEffect(effectType string, params Params) string {
	effect := newEffect(effectType, params)
	r.Effects = append(r.Effects, effect)
	return effect.ID
}

func newEffect(effectType string, params Params) Effect {
	effect := Effect{ID: newID(), Type: effectType, Params: params.Clone()}
	if effect.Params == nil {
		effect.Params = Params{}
	}
	return effect
}

func (r *Rule) RemoveEffect(effectID string) error {
	list, i, err := r.effectRef(effectID)
	if err != nil {
		return err
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	return nil
}

func (r *Rule) UpdateEffectParams(effectID string, params Params) error {
	list, i, err := r.effectRef(effectID)
	if err != nil {
		return err
	}
	(*list)[i].Params = mergeParams((*list)[i].Params, params)
	return nil
}

func (r *Rule) SetCustomMessage(effectID, message string) error {
	list, i, err := r.effectRef(effectID)
	if err != nil {
		return err
	}
	(*list)[i].CustomMessage = message
	return nil
}

// AddRandomGroup appends an empty random group with the given odds.
func (r *Rule) AddRandomGroup(numerator, denominator Value) string {
	group := RandomGroup{
		ID:                newID(),
		ChanceNumerator:   numerator,
		ChanceDenominator: denominator,
		Effects:           []Effect{},
	}
	r.RandomGroups = append(r.RandomGroups, group)
	return group.ID
}

func (r *Rule) randomGroupIndex(groupID string) (int, error) {
	for i := range r.RandomGroups {
		if r.RandomGroups[i].ID == groupID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("random group %s: %w", groupID, ErrNotFound)
}

// RemoveRandomGroup deletes the group along with its effects.
func (r *Rule) RemoveRandomGroup(groupID string) error {
	i, err := r.randomGroupIndex(groupID)
	if err != nil {
		return err
	}
	r.RandomGroups = append(r.RandomGroups[:i], r.RandomGroups[i+1:]...)
	return nil
}

func (r *Rule) AddEffectToRandomGroup(groupID, effectType string, params Params) (string, error) {
	i, err := r.randomGroupIndex(groupID)
	if err != nil {
		return "", err
	}
	effect := newEffect(effectType, params)
	r.RandomGroups[i].Effects = append(r.RandomGroups[i].Effects, effect)
	return effect.ID, nil
}

// MoveEffectToRandomGroup moves an effect into a random group. An empty
// groupID moves it back to the rule's unconditional effects.
func (r *Rule) MoveEffectToRandomGroup(effectID, groupID string) error {
	var target *[]Effect
	if groupID == "" {
		target = &r.Effects
	} else {
		gi, err := r.randomGroupIndex(groupID)
		if err != nil {
			return err
		}
		target = &r.RandomGroups[gi].Effects
	}
	list, i, err := r.effectRef(effectID)
	if err != nil {
		return err
	}
	effect := (*list)[i]
	*list = append((*list)[:i], (*list)[i+1:]...)
	*target = append(*target, effect)
	return nil
}
