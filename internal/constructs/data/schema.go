package data

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Definition is the provider-ready representation of a schema.
type Definition struct {
	// Schema is the SDL handed to the API construct.
	Schema string
}

// SchemaSource is the schema input to the data construct. It is a closed
// union: raw SDL text, or a source that derives its definition through a
// transform. The kind is decided at the call boundary, not sniffed at
// generation time.
type SchemaSource interface {
	apiDefinition() (Definition, error)
}

// rawSchema wraps literal SDL text unchanged.
type rawSchema string

func (r rawSchema) apiDefinition() (Definition, error) {
	return Definition{Schema: string(r)}, nil
}

// Schema declares a raw SDL schema.
func Schema(sdl string) SchemaSource {
	return rawSchema(sdl)
}

// Transformer derives a provider-ready definition. Transform is invoked
// exactly once per generation.
type Transformer interface {
	Transform() (Definition, error)
}

type derivedSchema struct {
	transformer Transformer
}

func (d derivedSchema) apiDefinition() (Definition, error) {
	return d.transformer.Transform()
}

// SchemaFrom declares a schema derived from a transformer.
func SchemaFrom(t Transformer) SchemaSource {
	return derivedSchema{transformer: t}
}

// fileSchema combines one or more SDL files into a single definition.
type fileSchema struct {
	paths []string
}

func (f fileSchema) Transform() (Definition, error) {
	paths := append([]string(nil), f.paths...)
	sort.Strings(paths)

	var parts []string
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return Definition{}, fmt.Errorf("failed to read schema file %s: %w", path, err)
		}
		parts = append(parts, strings.TrimSpace(string(content)))
	}
	return Definition{Schema: strings.Join(parts, "\n\n")}, nil
}

// SchemaFiles declares a schema combined from SDL files on disk.
func SchemaFiles(paths ...string) SchemaSource {
	return SchemaFrom(fileSchema{paths: paths})
}
