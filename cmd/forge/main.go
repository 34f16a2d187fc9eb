package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"jokerforge/forge/internal/catalog"
	"jokerforge/forge/internal/config"
	"jokerforge/forge/internal/logging"

	"github.com/rs/zerolog/log"
)

// errFindings marks a run that completed but found validation errors.
var errFindings = errors.New("validation failed")

type app struct {
	cfg *config.Config
	out io.Writer
}

type command struct {
	name  string
	usage string
	args  int
	run   func(a *app, args []string) error
}

var commands = []command{
	{"validate", "validate <project.json>", 1, runValidate},
	{"normalize", "normalize <project.json>", 1, runNormalize},
	{"simulate", "simulate <project.json> <state.json>", 2, runSimulate},
	{"catalog", "catalog [trigger]", 0, runCatalog},
	{"format", "format <text> [value...]", 1, runFormat},
	{"autoformat", "autoformat <text>", 1, runAutoformat},
	{"slug", "slug <name>", 1, runSlug},
	{"image", "image <in.png> <out.png>", 2, runImage},
	{"credits", "credits <dir>", 1, runCredits},
	{"vanilla", "vanilla", 0, runVanilla},
	{"locimport", "locimport <file.lua>", 1, runLocImport},
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: forge <command> [arguments]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %s\n", c.usage)
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	name, args := flag.Arg(0), flag.Args()[1:]
	cmd, ok := findCommand(name)
	if !ok {
		log.Error().Str("command", name).Msg("Unknown command")
		usage()
		os.Exit(2)
	}
	if len(args) < cmd.args {
		fmt.Fprintf(os.Stderr, "Usage: forge %s\n", cmd.usage)
		os.Exit(2)
	}

	a := &app{cfg: cfg, out: os.Stdout}
	if err := cmd.run(a, args); err != nil {
		if !errors.Is(err, errFindings) {
			log.Error().Err(err).Str("command", name).Msg("Command failed")
		}
		os.Exit(1)
	}
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if strings.EqualFold(c.name, name) {
			return c, true
		}
	}
	return command{}, false
}

// catalog returns the configured catalog, the embedded one unless
// FORGE_CATALOG_PATH is set.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	log.Info().Str("path", a.cfg.CatalogPath).Msg("Loading catalog")
	return catalog.LoadFile(a.cfg.CatalogPath)
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
