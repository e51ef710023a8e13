// Package synth models a CloudFormation template as it is being assembled
// from construct definitions, and renders it for upload and policy checks.
package synth

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Value is a CloudFormation property value: either a JSON literal or an
// intrinsic function map produced by Ref, GetAtt, or Sub.
type Value = any

// Resource is a single CloudFormation resource declaration.
type Resource struct {
	Type       string           `json:"Type" yaml:"Type"`
	Properties map[string]Value `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string         `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`

	logicalID string
}

// LogicalID returns the logical id the resource was registered under.
func (r *Resource) LogicalID() string {
	return r.logicalID
}

// Arn returns the GetAtt token for the resource's Arn attribute.
func (r *Resource) Arn() Value {
	return GetAtt(r.logicalID, "Arn")
}

// Ref returns the Ref token for the resource.
func (r *Resource) Ref() Value {
	return Ref(r.logicalID)
}

// Parameter is a CloudFormation template parameter declaration.
type Parameter struct {
	Type    string `json:"Type" yaml:"Type"`
	Default string `json:"Default,omitempty" yaml:"Default,omitempty"`
}

// Output is a CloudFormation stack output declaration.
type Output struct {
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       Value  `json:"Value" yaml:"Value"`
}

// Template is the rendered form of a synthesized stack.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]*Resource `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output    `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

const formatVersion = "2010-09-09"

// JSON renders the template as indented CloudFormation JSON.
func (t *Template) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render template JSON: %w", err)
	}
	return data, nil
}

// YAML renders the template as CloudFormation YAML.
func (t *Template) YAML() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to render template YAML: %w", err)
	}
	return data, nil
}

// AsMap returns the template as a generic map, the shape the policy
// validator evaluates. It round-trips through JSON so intrinsic tokens
// appear exactly as they will in the uploaded template.
func (t *Template) AsMap() (map[string]any, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	return m, nil
}
