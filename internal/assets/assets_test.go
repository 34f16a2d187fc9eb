package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		w, h int
		ok   bool
	}{
		{71, 95, true},
		{142, 190, true},
		{70, 95, false},
		{95, 71, false},
		{284, 380, false},
	}
	for _, tt := range tests {
		_, err := ValidateImage(encodePNG(t, tt.w, tt.h))
		if tt.ok {
			assert.NoError(t, err, "%dx%d", tt.w, tt.h)
		} else {
			assert.ErrorIs(t, err, ErrImageDimensions, "%dx%d", tt.w, tt.h)
		}
	}

	_, err := ValidateImage(strings.NewReader("not a png"))
	assert.Error(t, err, "Expected an error, got nil")
}

func TestProcess_Upscales(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Process(encodePNG(t, 71, 95), &out))

	img, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, LargeSize, img.Bounds().Size())

	// nearest-neighbour doubles the red top-left pixel into a 2x2 block
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		r, _, _, a := img.At(p.X, p.Y).RGBA()
		assert.Equal(t, uint32(0xffff), r, "pixel %v", p)
		assert.Equal(t, uint32(0xffff), a, "pixel %v", p)
	}
	_, _, _, a := img.At(2, 2).RGBA()
	assert.Zero(t, a)
}

func TestParseCredits(t *testing.T) {
	credits, err := ParseCredits(strings.NewReader("1: Alice\n\n2 : Bob Smith\nbad line\nx: nobody\n3:\n"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "Alice", 2: "Bob Smith"}, credits)
}

func TestLoadCredits(t *testing.T) {
	fsys := fstest.MapFS{
		"images/placeholder-jokers/credit.txt": {Data: []byte("1: Alice\n")},
	}
	assert.Equal(t, map[int]string{1: "Alice"}, LoadCredits(fsys, "images/placeholder-jokers"))
	assert.Empty(t, LoadCredits(fsys, "images/missing"))
}

func TestLoadVanillaBoosters(t *testing.T) {
	fsys := fstest.MapFS{
		VanillaFile: {Data: []byte(`{"boosters":[{"id":"p_jumbo","name":"Jumbo Pack","description":"Choose 1 of 5","booster_type":"tarot","cost":6,"weight":1,"config":{"extra":5,"choose":1}}]}`)},
		"broken.json": {Data: []byte(`{`)},
	}

	boosters := LoadVanillaBoosters(fsys, VanillaFile)
	require.Len(t, boosters, 1)
	assert.Equal(t, "Jumbo Pack", boosters[0].Name)
	assert.Equal(t, 5, boosters[0].Config.Extra)

	assert.Equal(t, DefaultBoosters(), LoadVanillaBoosters(fsys, "broken.json"))
	assert.Equal(t, DefaultBoosters(), LoadVanillaBoosters(fsys, "missing.json"))
}
