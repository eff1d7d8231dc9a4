// Package prompt fills generation settings interactively.
package prompt

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-modelgen/pkg/config"
	"github.com/goliatone/go-modelgen/pkg/model"
)

// AskFunc matches survey.AskOne.
type AskFunc func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// Prompter asks for the settings the caller did not provide.
type Prompter struct {
	ask AskFunc
}

// New returns a Prompter. A nil ask uses survey.AskOne.
func New(ask AskFunc) *Prompter {
	if ask == nil {
		ask = survey.AskOne
	}
	return &Prompter{ask: ask}
}

// Fill prompts for every setting whose key is not in provided and stores the
// answers in cfg. Keys are the configuration keys (root_name, ...).
func (p *Prompter) Fill(cfg *config.Config, provided map[string]bool) error {
	if cfg == nil {
		return fmt.Errorf("prompt: config is required")
	}

	if !provided["root_name"] {
		if err := p.ask(&survey.Input{
			Message: "Root model name:",
			Default: cfg.RootName,
		}, &cfg.RootName, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("prompt: root name: %w", err)
		}
	}
	if !provided["name_prefix"] {
		if err := p.ask(&survey.Input{
			Message: "Type name prefix (optional):",
			Default: cfg.NamePrefix,
		}, &cfg.NamePrefix); err != nil {
			return fmt.Errorf("prompt: name prefix: %w", err)
		}
	}
	if !provided["source_mode"] {
		if err := p.ask(&survey.Select{
			Message: "Source mode:",
			Options: config.Modes(),
			Default: cfg.SourceMode,
		}, &cfg.SourceMode); err != nil {
			return fmt.Errorf("prompt: source mode: %w", err)
		}
	}
	if !provided["target_strategy"] {
		if err := p.ask(&survey.Select{
			Message: "Target library:",
			Options: config.Strategies(),
			Default: cfg.TargetStrategy,
		}, &cfg.TargetStrategy); err != nil {
			return fmt.Errorf("prompt: target strategy: %w", err)
		}
	}
	if !provided["construct_type"] {
		if err := p.ask(&survey.Select{
			Message: "Generate:",
			Options: []string{string(model.ConstructStruct), string(model.ConstructClass)},
			Default: cfg.ConstructType,
		}, &cfg.ConstructType); err != nil {
			return fmt.Errorf("prompt: construct type: %w", err)
		}
	}
	if cfg.ConstructType == string(model.ConstructClass) {
		if !provided["support_nscoding"] {
			if err := p.ask(&survey.Confirm{
				Message: "Add NSCoding support?",
				Default: cfg.SupportNSCoding,
			}, &cfg.SupportNSCoding); err != nil {
				return fmt.Errorf("prompt: nscoding: %w", err)
			}
		}
		if !provided["is_final_required"] {
			if err := p.ask(&survey.Confirm{
				Message: "Mark leaf classes final?",
				Default: cfg.IsFinalRequired,
			}, &cfg.IsFinalRequired); err != nil {
				return fmt.Errorf("prompt: final: %w", err)
			}
		}
	}
	if !provided["author_name"] {
		if err := p.ask(&survey.Input{
			Message: "Author name (optional):",
			Default: cfg.AuthorName,
		}, &cfg.AuthorName); err != nil {
			return fmt.Errorf("prompt: author: %w", err)
		}
	}
	return cfg.Validate()
}
