package synth

import "fmt"

// Stack is the mutable registry constructs add resources and outputs to
// during a single synthesis pass. Synthesis is single-threaded, so the
// stack carries no locking.
type Stack struct {
	name      string
	resources map[string]*Resource
	outputs   map[string]Output
	params    map[string]Parameter
}

// NewStack creates an empty stack with the given name.
func NewStack(name string) *Stack {
	return &Stack{
		name:      name,
		resources: map[string]*Resource{},
		outputs:   map[string]Output{},
		params:    map[string]Parameter{},
	}
}

// Name returns the stack name.
func (s *Stack) Name() string {
	return s.name
}

// AddResource registers a resource under a logical id. Logical ids are
// unique within a stack; a duplicate id is a definition error.
func (s *Stack) AddResource(logicalID, resourceType string, properties map[string]Value) (*Resource, error) {
	if logicalID == "" {
		return nil, fmt.Errorf("resource logical id is required")
	}
	if _, exists := s.resources[logicalID]; exists {
		return nil, fmt.Errorf("duplicate resource logical id: %s", logicalID)
	}

	resource := &Resource{
		Type:       resourceType,
		Properties: properties,
		logicalID:  logicalID,
	}
	s.resources[logicalID] = resource
	return resource, nil
}

// FindResource looks up a resource by logical id.
func (s *Stack) FindResource(logicalID string) (*Resource, bool) {
	resource, ok := s.resources[logicalID]
	return resource, ok
}

// AddOutput registers a stack output. Output names are unique.
func (s *Stack) AddOutput(name string, output Output) error {
	if _, exists := s.outputs[name]; exists {
		return fmt.Errorf("duplicate stack output: %s", name)
	}
	s.outputs[name] = output
	return nil
}

// AddParameter registers a template parameter. Parameter names are unique.
func (s *Stack) AddParameter(name string, param Parameter) error {
	if _, exists := s.params[name]; exists {
		return fmt.Errorf("duplicate template parameter: %s", name)
	}
	s.params[name] = param
	return nil
}

// Template freezes the stack into a renderable template.
func (s *Stack) Template() *Template {
	t := &Template{
		AWSTemplateFormatVersion: formatVersion,
		Description:              fmt.Sprintf("Backend stack %s", s.name),
		Resources:                s.resources,
	}
	if len(s.outputs) > 0 {
		t.Outputs = s.outputs
	}
	if len(s.params) > 0 {
		t.Parameters = s.params
	}
	return t
}
