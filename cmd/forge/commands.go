package main

import (
	"fmt"
	"os"

	"jokerforge/forge/internal/assets"
	"jokerforge/forge/internal/locimport"
	"jokerforge/forge/internal/markup"
	"jokerforge/forge/internal/mod"
	"jokerforge/forge/internal/naming"
	"jokerforge/forge/internal/preprocessor"
	"jokerforge/forge/internal/rules"
	"jokerforge/forge/internal/validation"

	"github.com/rs/zerolog/log"
)

// loadProject reads a project and binds user variable references in its rules.
func (a *app) loadProject(path string) (*mod.Project, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	p, err := mod.LoadFile(path)
	if err != nil {
		return nil, err
	}
	bound := p.BindVariables(cat)
	log.Debug().Int("bound", bound).Msg("Bound variable references")
	return p, nil
}

type validateReport struct {
	Fields     []validation.Result  `json:"fields"`
	Issues     preprocessor.Issues  `json:"issues"`
	Duplicates []mod.DuplicateGroup `json:"duplicates,omitempty"`
}

func runValidate(a *app, args []string) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	p, err := a.loadProject(args[0])
	if err != nil {
		return err
	}

	log.Info().Msg("Started validating project...")
	report := validateReport{
		Fields: p.Validate(),
		Issues: p.CheckRules(cat),
	}
	report.Duplicates, err = p.DuplicateRules()
	if err != nil {
		return err
	}
	if err := a.writeJSON(report); err != nil {
		return err
	}

	failed := report.Issues.Err() != nil
	for _, r := range report.Fields {
		if !r.Valid() {
			failed = true
		}
	}
	log.Info().
		Int("fields", len(report.Fields)).
		Int("issues", len(report.Issues)).
		Int("duplicates", len(report.Duplicates)).
		Bool("failed", failed).
		Msg("Validation complete")
	if failed {
		return errFindings
	}
	return nil
}

func runNormalize(a *app, args []string) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	p, err := a.loadProject(args[0])
	if err != nil {
		return err
	}
	if err := p.CheckRules(cat).Err(); err != nil {
		log.Error().Err(err).Msg("Project has rule errors")
		return errFindings
	}
	p.AssignKeys()
	p.Normalize(cat)
	return a.writeJSON(p)
}

type catalogListing struct {
	Triggers   []rules.TriggerDefinition       `json:"triggers,omitempty"`
	Conditions []rules.ConditionTypeDefinition `json:"conditions"`
	Effects    []rules.EffectTypeDefinition    `json:"effects"`
}

func runCatalog(a *app, args []string) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return a.writeJSON(catalogListing{Triggers: cat.Triggers()})
	}
	if _, ok := cat.Trigger(args[0]); !ok {
		return fmt.Errorf("unknown trigger '%s'", args[0])
	}
	return a.writeJSON(catalogListing{
		Conditions: cat.ConditionsFor(args[0]),
		Effects:    cat.EffectsFor(args[0]),
	})
}

func runFormat(a *app, args []string) error {
	segments := markup.Parse(args[0], markup.LocVars{Values: args[1:]})
	return a.writeJSON(segments)
}

func runAutoformat(a *app, args []string) error {
	return a.writeJSON(map[string]string{"text": markup.ApplyAutoFormatting(args[0], "", true)})
}

func runSlug(a *app, args []string) error {
	return a.writeJSON(map[string]string{"key": naming.Slugify(args[0])})
}

func runImage(a *app, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer in.Close()

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := assets.Process(in, out); err != nil {
		out.Close()
		os.Remove(args[1])
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	return a.writeJSON(map[string]string{"written": args[1]})
}

func runCredits(a *app, args []string) error {
	return a.writeJSON(assets.LoadCredits(a.cfg.Assets(), args[0]))
}

func runVanilla(a *app, _ []string) error {
	return a.writeJSON(assets.LoadVanillaBoosters(a.cfg.Assets(), assets.VanillaFile))
}

func runLocImport(a *app, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read localization: %w", err)
	}
	loc, err := locimport.Load(string(src), args[0])
	if err != nil {
		return err
	}
	return a.writeJSON(loc)
}
