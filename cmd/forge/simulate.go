package main

import (
	"encoding/json"
	"fmt"
	"os"

	"jokerforge/forge/internal/mod"
	"jokerforge/forge/internal/runtime"

	"github.com/rs/zerolog/log"
)

// gameState is the snapshot a simulation runs against.
type gameState struct {
	Trigger   string             `json:"trigger"`
	Game      map[string]float64 `json:"game"`
	Facts     map[string]any     `json:"facts"`
	Variables map[string]float64 `json:"variables"`
	Seed      uint64             `json:"seed"`
}

type itemResult struct {
	Item    string           `json:"item"`
	Name    string           `json:"name"`
	Results []runtime.Result `json:"results"`
}

func readState(path string) (*gameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var state gameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if state.Trigger == "" {
		return nil, fmt.Errorf("state has no trigger")
	}
	return &state, nil
}

// newEnv builds the environment for one item: its variables start at their
// initial values unless the state overrides them.
func newEnv(state *gameState, item *mod.Base, seed uint64) *runtime.Env {
	env := runtime.NewEnv(state.Trigger, seed)
	for k, v := range state.Game {
		env.Game[k] = v
	}
	for k, v := range state.Facts {
		env.Facts[k] = v
	}
	for _, v := range item.UserVariables {
		env.Variables[v.Name] = v.InitialValue
	}
	for k, v := range state.Variables {
		env.Variables[k] = v
	}
	return env
}

func runSimulate(a *app, args []string) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	p, err := a.loadProject(args[0])
	if err != nil {
		return err
	}
	state, err := readState(args[1])
	if err != nil {
		return err
	}

	seed := state.Seed
	if seed == 0 {
		seed = a.cfg.RandomSeed
	}

	log.Info().Str("trigger", state.Trigger).Uint64("seed", seed).Msg("Started simulation...")
	engine := runtime.NewEngine(cat)
	var out []itemResult
	for _, ref := range p.Items() {
		fired, err := engine.EvaluateAll(ref.Item.Rules, newEnv(state, ref.Item, seed))
		if err != nil {
			return fmt.Errorf("%s: %w", ref.Path, err)
		}
		if len(fired) > 0 {
			out = append(out, itemResult{Item: ref.Path, Name: ref.Item.Name, Results: fired})
		}
	}
	log.Info().Int("items", len(out)).Msg("Simulation complete")
	return a.writeJSON(out)
}
