// Package flagging defines the reason taxonomy for user-submitted comment
// reports. Reasons live in an embedded YAML file so the client dialog and
// the server-side validation always agree.
package flagging

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed reasons.yaml
var reasonsFile []byte

// Reason is one reportable category.
type Reason struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

// Registry holds the loaded reason taxonomy. It is immutable after
// construction and safe for concurrent readers.
type Registry struct {
	reasons []Reason
	byID    map[string]Reason
}

// NewRegistry loads the embedded reason file.
func NewRegistry() (*Registry, error) {
	var file struct {
		Reasons []Reason `yaml:"reasons"`
	}
	if err := yaml.Unmarshal(reasonsFile, &file); err != nil {
		return nil, fmt.Errorf("unmarshal flag reasons: %w", err)
	}
	if len(file.Reasons) == 0 {
		return nil, fmt.Errorf("flag reason file is empty")
	}

	byID := make(map[string]Reason, len(file.Reasons))
	for _, reason := range file.Reasons {
		if reason.ID == "" {
			return nil, fmt.Errorf("flag reason with empty id")
		}
		if _, dup := byID[reason.ID]; dup {
			return nil, fmt.Errorf("duplicate flag reason %q", reason.ID)
		}
		byID[reason.ID] = reason
	}

	return &Registry{reasons: file.Reasons, byID: byID}, nil
}

// Valid reports whether id names a known reason.
func (r *Registry) Valid(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// List returns the reasons in file order.
func (r *Registry) List() []Reason {
	out := make([]Reason, len(r.reasons))
	copy(out, r.reasons)
	return out
}
