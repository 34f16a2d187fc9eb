// Package locimport reads item names and descriptions out of the game's Lua
// localization files so existing content can be pulled into a project.
package locimport

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/rs/zerolog/log"
)

var ErrNoDescriptions = errors.New("localization chunk has no descriptions table")

// Entry is the localized text of one item.
type Entry struct {
	Name string   `json:"name"`
	Text []string `json:"text"`
}

// Description joins the text lines the way the editor stores descriptions.
func (e Entry) Description() string {
	return strings.Join(e.Text, "\n")
}

// Localization maps set name (Joker, Tarot, ...) to item key to entry.
type Localization map[string]map[string]Entry

// Keys returns the item keys of set in sorted order.
func (l Localization) Keys(set string) []string {
	keys := make([]string, 0, len(l[set]))
	for k := range l[set] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newState() *lua.State {
	state := lua.NewState()
	// only pure libraries; the base library's file loaders are removed below.
	// Chunks are still trusted to terminate.
	for _, lib := range []struct {
		name string
		open lua.Function
	}{
		{"_G", lua.BaseOpen},
		{"string", lua.StringOpen},
		{"table", lua.TableOpen},
		{"math", lua.MathOpen},
	} {
		lua.Require(state, lib.name, lib.open, true)
		state.Pop(1)
	}
	for _, name := range []string{"dofile", "loadfile"} {
		state.PushNil()
		state.SetGlobal(name)
	}
	return state
}

// Load runs a localization chunk of the form
// return { descriptions = { Set = { key = { name = ..., text = {...} } } } }
// and collects its descriptions. name is used in error messages.
func Load(src, name string) (Localization, error) {
	state := newState()
	if err := lua.LoadBuffer(state, src, name, "t"); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	if state.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("%s: chunk must return a table", name)
	}

	root := state.AbsIndex(-1)
	if !pushField(state, root, "descriptions") || state.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("%s: %w", name, ErrNoDescriptions)
	}
	descriptions := state.AbsIndex(-1)

	loc := make(Localization)
	state.PushNil()
	for state.Next(descriptions) {
		set, isString := stringKey(state)
		if isString && state.TypeOf(-1) == lua.TypeTable {
			loc[set] = readSet(state, state.AbsIndex(-1))
			log.Debug().Str("set", set).Int("entries", len(loc[set])).Msg("Imported localization set")
		}
		state.Pop(1)
	}
	return loc, nil
}

func readSet(state *lua.State, index int) map[string]Entry {
	entries := make(map[string]Entry)
	state.PushNil()
	for state.Next(index) {
		key, isString := stringKey(state)
		if isString && state.TypeOf(-1) == lua.TypeTable {
			entries[key] = readEntry(state, state.AbsIndex(-1))
		}
		state.Pop(1)
	}
	return entries
}

func readEntry(state *lua.State, index int) Entry {
	var entry Entry
	state.PushNil()
	for state.Next(index) {
		key, _ := stringKey(state)
		switch key {
		case "name":
			entry.Name, _ = state.ToString(-1)
		case "text":
			entry.Text = readLines(state, state.AbsIndex(-1), entry.Text)
		}
		state.Pop(1)
	}
	return entry
}

// readLines flattens a string or a (possibly nested) array of strings.
func readLines(state *lua.State, index int, lines []string) []string {
	switch state.TypeOf(index) {
	case lua.TypeString:
		s, _ := state.ToString(index)
		return append(lines, s)
	case lua.TypeTable:
		for i := 1; ; i++ {
			state.RawGetInt(index, i)
			if state.TypeOf(-1) == lua.TypeNil {
				state.Pop(1)
				return lines
			}
			lines = readLines(state, state.AbsIndex(-1), lines)
			state.Pop(1)
		}
	}
	return lines
}

// stringKey reads the key of the current Next iteration without converting it
// in place, which would confuse Next.
func stringKey(state *lua.State) (string, bool) {
	if state.TypeOf(-2) != lua.TypeString {
		return "", false
	}
	s, ok := state.ToString(-2)
	return s, ok
}

// pushField pushes table[name] by walking the table; it reports whether the
// key was present. Nothing is pushed when it is absent.
func pushField(state *lua.State, table int, name string) bool {
	state.PushNil()
	for state.Next(table) {
		if key, ok := stringKey(state); ok && key == name {
			state.Remove(-2)
			return true
		}
		state.Pop(1)
	}
	return false
}
