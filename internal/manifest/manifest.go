// Package manifest builds and serializes the package.json of a generated
// project.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/189/koa2-generator/internal/catalog"
)

// Version is the version every generated project starts at.
const Version = "0.1.0"

// Manifest is the dependency manifest of a generated project. Field order is
// the key order of the serialized document.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// New returns an empty private manifest for the given project name.
func New(name string) *Manifest {
	return &Manifest{
		Name:            name,
		Version:         Version,
		Private:         true,
		Scripts:         map[string]string{},
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
}

// Add merges a feature's scripts and dependencies into the manifest.
// Features only ever add keys: redefining one that an earlier feature
// contributed is a catalog defect.
func (m *Manifest) Add(f *catalog.Feature) error {
	sections := []struct {
		name string
		dst  map[string]string
		src  map[string]string
	}{
		{"scripts", m.Scripts, f.Scripts},
		{"dependencies", m.Dependencies, f.Dependencies},
		{"devDependencies", m.DevDependencies, f.DevDependencies},
	}

	for _, s := range sections {
		for key, value := range s.src {
			if prev, ok := s.dst[key]; ok {
				return &catalog.InvariantError{
					Feature: f.Key,
					Path:    "package.json",
					Reason:  fmt.Sprintf("%s.%s redefined (%q, was %q)", s.name, key, value, prev),
				}
			}
			s.dst[key] = value
		}
	}
	return nil
}

// Serialize renders the manifest as package.json: two-space indentation,
// sorted keys inside each mapping, no HTML escaping and a trailing newline.
// The same manifest always serializes to the same bytes.
func Serialize(m *Manifest) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("failed to serialize manifest: nil manifest")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %w", err)
	}
	return buf.Bytes(), nil
}
