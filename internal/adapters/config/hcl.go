package config

import (
	"errors"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.trai.ch/mindc/internal/core/domain"
)

// hclFile is the top-level structure of mind.hcl.
type hclFile struct {
	Version   *string       `hcl:"version,optional"`
	BuildDir  *string       `hcl:"build_dir,optional"`
	Toolchain *hclToolchain `hcl:"toolchain,block"`
	Targets   []*hclTarget  `hcl:"target,block"`
}

type hclToolchain struct {
	CC           *string  `hcl:"cc,optional"`
	AS           *string  `hcl:"as,optional"`
	LD           *string  `hcl:"ld,optional"`
	AR           *string  `hcl:"ar,optional"`
	CFlags       []string `hcl:"cflags,optional"`
	CPPFlags     []string `hcl:"cppflags,optional"`
	ASFlags      []string `hcl:"asflags,optional"`
	LDFlags      []string `hcl:"ldflags,optional"`
	LinkerScript *string  `hcl:"linker_script,optional"`
	Preprocess   *bool    `hcl:"preprocess,optional"`
}

type hclTarget struct {
	Name     string   `hcl:"name,label"`
	Kind     *string  `hcl:"kind,optional"`
	Sources  []string `hcl:"sources,optional"`
	Includes []string `hcl:"includes,optional"`
	Defines  []string `hcl:"defines,optional"`
	CFlags   []string `hcl:"cflags,optional"`
	LDFlags  []string `hcl:"ldflags,optional"`
	Link     []string `hcl:"link,optional"`
	Output   *string  `hcl:"output,optional"`
}

// evalContext exposes the environment as env.NAME and a few string and list
// functions to manifest expressions.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
		Functions: map[string]function.Function{
			"concat":  stdlib.ConcatFunc,
			"format":  stdlib.FormatFunc,
			"join":    stdlib.JoinFunc,
			"lower":   stdlib.LowerFunc,
			"upper":   stdlib.UpperFunc,
			"split":   stdlib.SplitFunc,
			"compact": stdlib.CompactFunc,
		},
	}
}

// decodeHCL parses mind.hcl into the same structure as mind.yaml.
func decodeHCL(path string, data []byte) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Join(domain.ErrManifestParseFailed, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &parsed); diags.HasErrors() {
		return nil, errors.Join(domain.ErrManifestInvalid, diags)
	}

	m := &Manifest{
		Version:  deref(parsed.Version),
		BuildDir: deref(parsed.BuildDir),
	}
	if tc := parsed.Toolchain; tc != nil {
		m.Toolchain = ToolchainDTO{
			CC:           deref(tc.CC),
			AS:           deref(tc.AS),
			LD:           deref(tc.LD),
			AR:           deref(tc.AR),
			CFlags:       tc.CFlags,
			CPPFlags:     tc.CPPFlags,
			ASFlags:      tc.ASFlags,
			LDFlags:      tc.LDFlags,
			LinkerScript: deref(tc.LinkerScript),
			Preprocess:   tc.Preprocess,
		}
	}
	for _, t := range parsed.Targets {
		m.Targets = append(m.Targets, TargetDTO{
			Name:     t.Name,
			Kind:     deref(t.Kind),
			Sources:  t.Sources,
			Includes: t.Includes,
			Defines:  t.Defines,
			CFlags:   t.CFlags,
			LDFlags:  t.LDFlags,
			Link:     t.Link,
			Output:   deref(t.Output),
		})
	}
	return m, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
