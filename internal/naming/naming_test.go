package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"3 Cool Joker!":      "_3_cool_joker",
		"Jolly Joker":        "jolly_joker",
		"  Crème   Brûlée  ": "creme_brulee",
		"Half-Joker":         "half_joker",
		"Mr. Bones":          "mr_bones",
		"!!!":                Unnamed,
		"":                   Unnamed,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slugify(in))
		})
	}
}

func TestUniqueKey(t *testing.T) {
	taken := map[string]bool{"jolly_joker": true, "jolly_joker_2": true}
	assert.Equal(t, "jolly_joker_3", UniqueKey("Jolly Joker", taken))
	assert.Equal(t, "sly_joker", UniqueKey("Sly Joker", taken))
}
