// Package schema decodes loosely-typed program documents (parsed YAML or
// JSON) into domain types. Every ingress path (program files, the HTTP
// surface) funnels through here so the accepted shape stays identical.
package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/armature/pkg/domain"
)

// DecodeProgram converts a generic document into a Program. Unknown keys
// are rejected so typos in hand-written program files surface immediately
// instead of silently dropping blocks or parameters.
func DecodeProgram(raw map[string]any) (*domain.Program, error) {
	var program domain.Program

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &program,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid program document: %w", err)
	}

	if program.ID == "" {
		return nil, fmt.Errorf("program document is missing an id")
	}
	for i, b := range program.Blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("block at index %d is missing an id", i)
		}
		if b.DefinitionID == "" {
			return nil, fmt.Errorf("block %s is missing a definition", b.ID)
		}
	}
	return &program, nil
}
