package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/cory-johannsen/greedflame/internal/config"
	"github.com/cory-johannsen/greedflame/internal/game/attribute"
	"github.com/cory-johannsen/greedflame/internal/scripting"
)

// scriptKey names the single VM gaugectl loads the configured scripts into.
const scriptKey = "rules"

type reportOptions struct {
	TemplateID string
	Hook       string
}

// run loads content per cfg and writes one gauge table per selected template to w.
func run(cfg config.Config, logger *zap.Logger, opts reportOptions, w io.Writer) error {
	templates, err := attribute.LoadTemplates(cfg.Content.AttributesDir)
	if err != nil {
		return fmt.Errorf("loading attribute templates: %w", err)
	}
	registry := attribute.NewRegistry()
	for _, t := range templates {
		registry.Register(t)
	}
	logger.Info("attribute templates loaded", zap.Int("count", len(templates)))

	ids := registry.IDs()
	if opts.TemplateID != "" {
		if _, ok := registry.Template(opts.TemplateID); !ok {
			return fmt.Errorf("%w: %q", attribute.ErrUnknownTemplate, opts.TemplateID)
		}
		ids = []string{opts.TemplateID}
	}

	var scripts *scripting.Manager
	if opts.Hook != "" {
		if cfg.Content.ScriptsDir == "" {
			return fmt.Errorf("hook %q requested but content.scripts_dir is not set", opts.Hook)
		}
		scripts = scripting.NewManager(logger)
		defer scripts.Close()
		if err := scripts.Load(scriptKey, cfg.Content.ScriptsDir, cfg.Scripting.InstructionLimit); err != nil {
			return err
		}
	}

	for _, id := range ids {
		h, err := registry.Build(id)
		if err != nil {
			return err
		}
		if scripts != nil {
			if _, err := scripts.RunHolderHook(scriptKey, opts.Hook, &h); err != nil {
				return err
			}
		}
		logger.Debug("holder built", zap.String("template", id), zap.Object("attributes", &h))
		tmpl, _ := registry.Template(id)
		if err := writeHolder(w, tmpl, &h); err != nil {
			return err
		}
	}
	return nil
}

// writeHolder renders one holder as an aligned table followed by its predicates.
func writeHolder(w io.Writer, tmpl *attribute.Template, h *attribute.Holder) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "== %s (%s)\n", tmpl.Name, tmpl.ID)
	for _, name := range attribute.FieldNames() {
		m, _ := h.Field(name)
		fmt.Fprintf(tw, "%s\t%s\t%d%%\n", name, m, m.Percentage())
	}
	fmt.Fprintf(tw, "can_attack\t%t\n", h.CanAttack())
	fmt.Fprintf(tw, "can_special_attack\t%t\n", h.CanSpecialAttack())
	fmt.Fprintf(tw, "is_alive\t%t\n", h.IsAlive())
	return tw.Flush()
}
