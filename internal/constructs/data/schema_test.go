package data

import (
	"os"
	"path/filepath"
	"testing"
)

const testSDL = `type Todo { id: ID! content: String } type Query { todos: [Todo] }`

type countingTransformer struct {
	calls int
}

func (c *countingTransformer) Transform() (Definition, error) {
	c.calls++
	return Definition{Schema: testSDL}, nil
}

func TestSchemaRaw(t *testing.T) {
	definition, err := Schema(testSDL).apiDefinition()
	if err != nil {
		t.Fatalf("apiDefinition() error = %v", err)
	}
	if definition.Schema != testSDL {
		t.Errorf("Schema = %q, want the raw SDL unchanged", definition.Schema)
	}
}

func TestSchemaFrom(t *testing.T) {
	transformer := &countingTransformer{}
	source := SchemaFrom(transformer)

	definition, err := source.apiDefinition()
	if err != nil {
		t.Fatalf("apiDefinition() error = %v", err)
	}
	if definition.Schema != testSDL {
		t.Errorf("Schema = %q, want %q", definition.Schema, testSDL)
	}
	if transformer.calls != 1 {
		t.Errorf("Transform() called %d times, want 1", transformer.calls)
	}
}

func TestSchemaFiles(t *testing.T) {
	dir := t.TempDir()

	// Written out of order to prove deterministic combination.
	second := filepath.Join(dir, "b.graphql")
	if err := os.WriteFile(second, []byte("type Query { ping: String }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	first := filepath.Join(dir, "a.graphql")
	if err := os.WriteFile(first, []byte("type Todo { id: ID! }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	definition, err := SchemaFiles(second, first).apiDefinition()
	if err != nil {
		t.Fatalf("apiDefinition() error = %v", err)
	}

	want := "type Todo { id: ID! }\n\ntype Query { ping: String }"
	if definition.Schema != want {
		t.Errorf("Schema = %q, want %q", definition.Schema, want)
	}
}

func TestSchemaFilesMissing(t *testing.T) {
	if _, err := SchemaFiles(filepath.Join(t.TempDir(), "missing.graphql")).apiDefinition(); err == nil {
		t.Error("apiDefinition() should fail for a missing schema file")
	}
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		sdl     string
		wantErr bool
	}{
		{
			name: "valid schema with appsync directives",
			sdl: `type Todo @aws_iam @aws_cognito_user_pools {
				id: ID!
				content: String
			}
			type Query {
				todos: [Todo]
			}`,
		},
		{
			name:    "malformed schema",
			sdl:     "type Todo {",
			wantErr: true,
		},
		{
			name:    "missing query root",
			sdl:     "type Todo { id: ID! }",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSchema(tc.sdl)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateSchema() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
