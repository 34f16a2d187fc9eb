package assets

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"jokerforge/forge/internal/mod"

	"github.com/rs/zerolog/log"
)

// VanillaFile is the reference catalog of the base game's booster packs.
const VanillaFile = "vanillareforged.json"

type vanillaDocument struct {
	Boosters []mod.Booster `json:"boosters"`
}

// DefaultBoosters is used when the reference catalog cannot be read.
func DefaultBoosters() []mod.Booster {
	return []mod.Booster{
		{ID: "p_arcana_normal_1", Key: "arcana_normal_1", Name: "Arcana Pack", Description: "Choose {C:attention}1{} of up to {C:attention}3{C:tarot} Tarot{} cards", Kind: mod.BoosterTarot, Cost: 4, Weight: 1, Config: mod.BoosterConfig{Extra: 3, Choose: 1}},
		{ID: "p_celestial_normal_1", Key: "celestial_normal_1", Name: "Celestial Pack", Description: "Choose {C:attention}1{} of up to {C:attention}3{C:planet} Planet{} cards", Kind: mod.BoosterPlanet, Cost: 4, Weight: 1, Config: mod.BoosterConfig{Extra: 3, Choose: 1}},
		{ID: "p_spectral_normal_1", Key: "spectral_normal_1", Name: "Spectral Pack", Description: "Choose {C:attention}1{} of up to {C:attention}2{C:spectral} Spectral{} cards", Kind: mod.BoosterSpectral, Cost: 4, Weight: 0.3, Config: mod.BoosterConfig{Extra: 2, Choose: 1}},
		{ID: "p_standard_normal_1", Key: "standard_normal_1", Name: "Standard Pack", Description: "Choose {C:attention}1{} of up to {C:attention}3{C:attention} Playing{} cards", Kind: mod.BoosterStandard, Cost: 4, Weight: 1, Config: mod.BoosterConfig{Extra: 3, Choose: 1}},
		{ID: "p_buffoon_normal_1", Key: "buffoon_normal_1", Name: "Buffoon Pack", Description: "Choose {C:attention}1{} of up to {C:attention}2{C:joker} Joker{} cards", Kind: mod.BoosterJoker, Cost: 4, Weight: 0.6, Config: mod.BoosterConfig{Extra: 2, Choose: 1}},
	}
}

// LoadVanillaBoosters reads the booster packs of the reference catalog at name.
// Read or decode failures are logged and fall back to DefaultBoosters.
func LoadVanillaBoosters(fsys fs.FS, name string) []mod.Booster {
	boosters, err := readVanillaBoosters(fsys, name)
	if err != nil {
		log.Warn().Err(err).Str("path", name).Msg("Failed to load vanilla boosters, using defaults")
		return DefaultBoosters()
	}
	log.Debug().Int("count", len(boosters)).Msg("Loaded vanilla boosters")
	return boosters
}

func readVanillaBoosters(fsys fs.FS, name string) ([]mod.Booster, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var doc vanillaDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if len(doc.Boosters) == 0 {
		return nil, fmt.Errorf("%s has no boosters", name)
	}
	return doc.Boosters, nil
}
