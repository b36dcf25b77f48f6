package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed mind.schema.json
var schemaJSON []byte

const schemaURL = "mind.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// Manifest is the file structure of mind.yaml.
type Manifest struct {
	Version   string       `yaml:"version"`
	BuildDir  string       `yaml:"build_dir"`
	Toolchain ToolchainDTO `yaml:"toolchain"`
	Targets   []TargetDTO  `yaml:"targets"`
}

// ToolchainDTO represents the toolchain section of a manifest.
type ToolchainDTO struct {
	CC           string   `yaml:"cc"`
	AS           string   `yaml:"as"`
	LD           string   `yaml:"ld"`
	AR           string   `yaml:"ar"`
	CFlags       []string `yaml:"cflags"`
	CPPFlags     []string `yaml:"cppflags"`
	ASFlags      []string `yaml:"asflags"`
	LDFlags      []string `yaml:"ldflags"`
	LinkerScript string   `yaml:"linker_script"`
	Preprocess   *bool    `yaml:"preprocess"`
}

// TargetDTO represents a target definition in the manifest.
type TargetDTO struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Sources  []string `yaml:"sources"`
	Includes []string `yaml:"includes"`
	Defines  []string `yaml:"defines"`
	CFlags   []string `yaml:"cflags"`
	LDFlags  []string `yaml:"ldflags"`
	Link     []string `yaml:"link"`
	Output   string   `yaml:"output"`
}

// validateDocument checks a decoded YAML document against the embedded schema.
// The document is round-tripped through JSON so numbers and maps take the
// shapes the validator expects.
func validateDocument(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return domain.Internal(zerr.Wrap(err, "failed to compile manifest schema"))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Join(domain.ErrManifestParseFailed, zerr.Wrap(err, "failed to convert manifest to JSON"))
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return errors.Join(domain.ErrManifestParseFailed, err)
	}

	if err := schema.Validate(value); err != nil {
		return errors.Join(domain.ErrManifestInvalid, err)
	}
	return nil
}
