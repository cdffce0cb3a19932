package taxonomy

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/file-organizer/internal/core/domain"
)

// Registry indexes the workspace taxonomy. Loaded once at startup and
// read-only afterwards; a malformed definition refuses to load rather than
// classify against a partial taxonomy.
type Registry struct {
	ordered []domain.Workspace
	byID    map[string]domain.Workspace
}

type definition struct {
	Workspaces []domain.Workspace `yaml:"workspaces"`
	Defaults   map[string]string  `yaml:"defaults"`
}

var formatTokenPattern = regexp.MustCompile(`\{(\w+)\}`)

// Load reads and validates a taxonomy YAML file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	return Parse(raw)
}

// Parse validates a taxonomy definition from raw YAML.
func Parse(raw []byte) (*Registry, error) {
	var def definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse taxonomy yaml: %w", err)
	}
	if len(def.Workspaces) == 0 {
		return nil, fmt.Errorf("taxonomy defines no workspaces")
	}

	reg := &Registry{
		byID: make(map[string]domain.Workspace, len(def.Workspaces)+1),
	}
	for _, ws := range def.Workspaces {
		if ws.ID == "" {
			return nil, fmt.Errorf("taxonomy workspace with empty id")
		}
		if _, dup := reg.byID[ws.ID]; dup {
			return nil, fmt.Errorf("duplicate workspace id: %s", ws.ID)
		}
		if err := validateNaming(ws); err != nil {
			return nil, err
		}
		reg.byID[ws.ID] = ws
		reg.ordered = append(reg.ordered, ws)
	}

	// The reserved Misc workspace must always resolve so the classifier's
	// remap target counts as known.
	if _, ok := reg.byID[domain.MiscWorkspaceID]; !ok {
		misc := domain.Workspace{
			ID:          domain.MiscWorkspaceID,
			Description: "Miscellaneous personal files that don't fit other categories",
			Naming: domain.NamingTemplate{
				Prefix:     "MISC",
				Components: []string{"doc_type"},
				Format:     "{prefix}-{doc_type}",
			},
		}
		reg.byID[misc.ID] = misc
		reg.ordered = append(reg.ordered, misc)
	}

	return reg, nil
}

func validateNaming(ws domain.Workspace) error {
	n := ws.Naming
	if n.Format == "" {
		return nil
	}
	known := map[string]struct{}{"prefix": {}}
	for _, comp := range n.Components {
		known[comp] = struct{}{}
	}
	for _, match := range formatTokenPattern.FindAllStringSubmatch(n.Format, -1) {
		if _, ok := known[match[1]]; !ok {
			return fmt.Errorf("workspace %s: format references unknown token %q", ws.ID, match[1])
		}
	}
	return nil
}

func (r *Registry) Resolve(id string) (domain.Workspace, error) {
	ws, ok := r.byID[id]
	if !ok {
		return domain.Workspace{}, domain.WrapError(domain.ErrWorkspaceNotFound, "resolve workspace", fmt.Errorf("unknown id %q", id))
	}
	return ws, nil
}

// All returns workspaces in declared order.
func (r *Registry) All() []domain.Workspace {
	out := make([]domain.Workspace, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) MiscWorkspace() domain.Workspace {
	return r.byID[domain.MiscWorkspaceID]
}
