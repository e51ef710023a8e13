package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dbanksdesign/gen2/internal/backend"
	"github.com/dbanksdesign/gen2/internal/constructs/data"
	"github.com/dbanksdesign/gen2/internal/policy"
	"github.com/dbanksdesign/gen2/internal/project"
	"github.com/dbanksdesign/gen2/internal/synth"
)

// synthesis is the product of one definition pass: the backend identifier,
// the rendered template, and the constructed data resource.
type synthesis struct {
	config     *project.Config
	identifier backend.Identifier
	template   *synth.Template
	resource   *data.Resource
}

type synthOptions struct {
	configPath  string
	branch      string
	checkSchema bool
	checkPolicy bool
}

// synthesize loads the project, resolves the construct factories against a
// fresh backend, and validates the result.
func synthesize(ctx context.Context, opts synthOptions) (*synthesis, error) {
	cfg, err := project.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	identifier, err := cfg.Identifier(opts.branch)
	if err != nil {
		return nil, err
	}

	b := backend.New(identifier)
	factory := cfg.DataFactory(filepath.Dir(opts.configPath))

	resource, err := factory.GetInstance(b.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data construct: %w", err)
	}

	if opts.checkSchema {
		if err := data.ValidateSchema(resource.Definition.Schema); err != nil {
			return nil, err
		}
	}

	template := b.Synth()

	if opts.checkPolicy {
		if err := validateTemplate(ctx, template); err != nil {
			return nil, err
		}
	}

	return &synthesis{
		config:     cfg,
		identifier: identifier,
		template:   template,
		resource:   resource,
	}, nil
}

func validateTemplate(ctx context.Context, template *synth.Template) error {
	validator, err := policy.NewValidator()
	if err != nil {
		return err
	}

	m, err := template.AsMap()
	if err != nil {
		return err
	}

	result, err := validator.ValidateTemplate(ctx, m)
	if err != nil {
		return fmt.Errorf("policy validation error: %w", err)
	}
	if !result.Allowed {
		return fmt.Errorf("policy violations: %s", strings.Join(result.Violations, "; "))
	}
	return nil
}
