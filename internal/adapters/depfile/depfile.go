// Package depfile reads and writes Makefile-style dependency files as emitted by gcc -MMD.
package depfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mindc/internal/core/domain"
	"go.trai.ch/mindc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Rules maps each rule target to its prerequisites in declaration order.
type Rules map[string][]string

// Parse reads Makefile rules. Backslash-newline continues a rule, "\ " escapes
// a space inside a path and "$$" stands for "$". Rules for the same target accumulate.
func Parse(r io.Reader) (Rules, error) {
	rules := make(Rules)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var logical strings.Builder
	lineNo, ruleStart := 0, 0
	flush := func() error {
		line := strings.TrimSpace(logical.String())
		logical.Reset()
		if line == "" || strings.HasPrefix(line, "#") {
			return nil
		}
		target, prereqs, ok := splitRule(line)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrDepFileParse, "rule has no target separator"), "line", ruleStart)
		}
		rules[target] = append(rules[target], prereqs...)
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if logical.Len() == 0 {
			ruleStart = lineNo
		}
		if cont, ok := strings.CutSuffix(line, "\\"); ok {
			logical.WriteString(cont)
			logical.WriteByte(' ')
			continue
		}
		logical.WriteString(line)
		if err := flush(); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read dependency file")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return rules, nil
}

// splitRule splits a logical line on the first colon followed by whitespace or end of line.
func splitRule(line string) (string, []string, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
			continue
		}
		target := unescape(strings.ReplaceAll(strings.TrimSpace(line[:i]), "\\ ", " "))
		if target == "" {
			return "", nil, false
		}
		return target, splitPaths(line[i+1:]), true
	}
	return "", nil, false
}

// splitPaths splits on unescaped whitespace.
func splitPaths(s string) []string {
	var paths []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '#'):
			cur.WriteByte(s[i+1])
			i++
		case c == ' ' || c == '\t':
			if cur.Len() > 0 {
				paths = append(paths, unescape(cur.String()))
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		paths = append(paths, unescape(cur.String()))
	}
	return paths
}

func unescape(s string) string {
	return strings.ReplaceAll(s, "$$", "$")
}

// Lookup returns the prerequisites of target. A file holding a single rule is
// assumed to describe target. Otherwise the target is matched as written, then
// as an absolute path, then by base name.
func (r Rules) Lookup(target string) ([]string, bool) {
	if len(r) == 1 {
		for _, deps := range r {
			return deps, true
		}
	}
	if deps, ok := r[target]; ok {
		return deps, true
	}
	if abs, err := filepath.Abs(target); err == nil {
		if deps, ok := r[abs]; ok {
			return deps, true
		}
	}
	deps, ok := r[filepath.Base(target)]
	return deps, ok
}

// ReadFile parses the dependency file at path and returns the prerequisites of
// target that exist. Prerequisites that no longer exist are dropped: a header
// removed since the last build is not an input anymore. Relative prerequisites
// are resolved against root, the directory the tool ran in.
func ReadFile(fsys ports.FileSystem, root, path, target string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is derived from the command output
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open dependency file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	rules, err := Parse(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	prereqs, ok := rules.Lookup(target)
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrDepFileParse, "no rule for target"), "target", target)
		return nil, zerr.With(err, "path", path)
	}

	existing := make([]string, 0, len(prereqs))
	for _, p := range prereqs {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		_, exists, err := fsys.ModTime(p)
		if err != nil {
			return nil, err
		}
		if exists {
			existing = append(existing, p)
		}
	}
	return existing, nil
}

// Write emits one rule in the layout gcc uses: "target : a \" followed by
// indented continuation lines.
func Write(w io.Writer, target string, deps []string) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "%s :", escape(target))
	for i, dep := range deps {
		if i > 0 {
			_, _ = bw.WriteString(" \\\n   ")
		}
		_, _ = bw.WriteString(" " + escape(dep))
	}
	_, _ = bw.WriteString("\n\n")
	if err := bw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write dependency file")
	}
	return nil
}

func escape(path string) string {
	path = strings.ReplaceAll(path, "$", "$$")
	return strings.ReplaceAll(path, " ", "\\ ")
}

// IsNotExist reports whether err means the dependency file has not been written yet.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
