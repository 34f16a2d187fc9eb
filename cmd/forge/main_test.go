package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"jokerforge/forge/internal/config"
	"jokerforge/forge/internal/markup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = `{
	"metadata": {"id": "demo_mod", "name": "Demo", "author": ["someone"], "prefix": "demo", "version": "1.0.0"},
	"jokers": [{
		"id": "j1", "name": "Jolly Joker", "description": "{C:mult}+8{} Mult", "rarity": 1, "cost": 3,
		"userVariables": [{"id": "v1", "name": "bonus", "initialValue": 4}],
		"rules": [{
			"id": "r1", "trigger": "hand_played",
			"conditionGroups": [{"id": "g1", "operator": "and", "conditions": [
				{"id": "c1", "type": "hand_type", "params": {"value": "Pair"}}
			]}],
			"effects": [{"id": "e1", "type": "add_mult", "params": {"value": "bonus"}}]
		}]
	}]
}`

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &app{cfg: &config.Config{AssetsDir: t.TempDir(), LogLevel: "info", LogFormat: "console"}, out: &out}, &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindCommand(t *testing.T) {
	cmd, ok := findCommand("Validate")
	require.True(t, ok)
	assert.Equal(t, "validate", cmd.name)

	_, ok = findCommand("compile")
	assert.False(t, ok)
}

func TestRunSlug(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, runSlug(a, []string{"3 Cool Joker!"}))
	assert.JSONEq(t, `{"key":"_3_cool_joker"}`, out.String())
}

func TestRunFormat(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, runFormat(a, []string{"{C:mult}+#1#{} Mult", "4"}))

	var segments []markup.Segment
	require.NoError(t, json.Unmarshal(out.Bytes(), &segments))
	require.Len(t, segments, 2)
	assert.Equal(t, "+4", segments[0].Text)
	assert.Equal(t, "text-balatro-mult", segments[0].TextColor)
}

func TestRunValidate(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, runValidate(a, []string{writeFile(t, "project.json", testProject)}))

	var report validateReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Fields)
}

func TestRunValidate_Findings(t *testing.T) {
	a, _ := newTestApp(t)
	broken := `{"metadata": {"id": "demo_mod", "name": "Demo", "author": ["someone"], "prefix": "demo", "version": "1"},
		"jokers": [{"id": "j1", "name": "J", "description": "d", "rarity": 1,
			"rules": [{"id": "r1", "trigger": "nope", "effects": []}]}]}`
	err := runValidate(a, []string{writeFile(t, "project.json", broken)})
	assert.ErrorIs(t, err, errFindings)
}

func TestRunSimulate(t *testing.T) {
	a, out := newTestApp(t)
	project := writeFile(t, "project.json", testProject)
	state := writeFile(t, "state.json", `{"trigger": "hand_played", "facts": {"hand_type": "Pair"}, "seed": 5}`)

	require.NoError(t, runSimulate(a, []string{project, state}))

	var results []itemResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "jokers[0]", results[0].Item)
	require.Len(t, results[0].Results, 1)
	assert.Equal(t, 4.0, results[0].Results[0].Effects[0].Params["value"])
}

func TestRunVanilla_FallsBack(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, runVanilla(a, nil))
	assert.Contains(t, out.String(), "Arcana Pack")
}
