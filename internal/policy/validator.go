// Package policy gates synthesized templates on an embedded rego policy
// before they are uploaded for deployment.
package policy

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

//go:embed gen2.rego
var policyContent string

type Validator struct {
	allowQuery      rego.PreparedEvalQuery
	violationsQuery rego.PreparedEvalQuery
}

type ValidationResult struct {
	Allowed    bool     `json:"allowed"`
	Violations []string `json:"violations,omitempty"`
}

func NewValidator() (*Validator, error) {
	allow, err := rego.New(
		rego.Query("data.gen2.allow"),
		rego.Module("gen2.rego", policyContent),
	).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy query: %w", err)
	}

	violations, err := rego.New(
		rego.Query("data.gen2.violations"),
		rego.Module("gen2.rego", policyContent),
	).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare violations query: %w", err)
	}

	return &Validator{
		allowQuery:      allow,
		violationsQuery: violations,
	}, nil
}

// ValidateTemplate evaluates the template's Resources section against the
// embedded policy.
func (v *Validator) ValidateTemplate(ctx context.Context, template map[string]any) (*ValidationResult, error) {
	input := map[string]any{
		"Resources": template["Resources"],
	}

	results, err := v.allowQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 {
		return &ValidationResult{
			Allowed:    false,
			Violations: []string{"policy evaluation returned no results"},
		}, nil
	}

	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return &ValidationResult{
			Allowed:    false,
			Violations: []string{"policy evaluation returned non-boolean result"},
		}, nil
	}

	result := &ValidationResult{Allowed: allowed}
	if allowed {
		return result, nil
	}

	violationResults, err := v.violationsQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate violations: %w", err)
	}
	for _, r := range violationResults {
		for _, expr := range r.Expressions {
			values, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, value := range values {
				if msg, ok := value.(string); ok {
					result.Violations = append(result.Violations, msg)
				}
			}
		}
	}

	return result, nil
}
