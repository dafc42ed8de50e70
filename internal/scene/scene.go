// Package scene loads declarative node trees from YAML and builds them on a
// runtime using a registry of named components.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bft-labs/xnew/internal/ports"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// ErrUnknownComponent is returned by Build for component names missing from
// the registry.
var ErrUnknownComponent = errors.New("scene: unknown component")

// Scene is a named node tree.
type Scene struct {
	// Name identifies the scene in logs.
	Name string `yaml:"name"`

	// Description is free-form text.
	Description string `yaml:"description,omitempty"`

	// Root is the tree built by Build.
	Root NodeSpec `yaml:"root"`
}

// NodeSpec declares one node.
type NodeSpec struct {
	// Tags is a space-separated tag list.
	Tags string `yaml:"tags,omitempty"`

	// Element, when set, creates an owned host element for the node.
	Element *ports.Description `yaml:"element,omitempty"`

	// Stopped creates the node without a start request.
	Stopped bool `yaml:"stopped,omitempty"`

	// Components are applied in order.
	Components []ComponentSpec `yaml:"components,omitempty"`

	Children []NodeSpec `yaml:"children,omitempty"`
}

// ComponentSpec references a registered component.
type ComponentSpec struct {
	Name  string         `yaml:"name"`
	Props map[string]any `yaml:"props,omitempty"`
}

// Load reads and parses a scene YAML file.
// Unknown fields are rejected.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &s, nil
}

func validate(s *Scene) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	return validateNode(&s.Root, "root")
}

func validateNode(n *NodeSpec, path string) error {
	for i, c := range n.Components {
		if c.Name == "" {
			return fmt.Errorf("%s.components[%d]: name is required", path, i)
		}
	}
	for i := range n.Children {
		if err := validateNode(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Components returns every component name the scene references, in
// depth-first order, without duplicates.
func (s *Scene) Components() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(n *NodeSpec)
	walk = func(n *NodeSpec) {
		for _, c := range n.Components {
			if !seen[c.Name] {
				seen[c.Name] = true
				out = append(out, c.Name)
			}
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(&s.Root)
	return out
}

// Build creates the scene tree as a new root of rt.
// Every referenced component is resolved before any node is created.
func Build(rt *xnew.Runtime, reg *Registry, s *Scene) (*xnew.Node, error) {
	for _, name := range s.Components() {
		if _, ok := reg.Get(name); !ok {
			return nil, fmt.Errorf("scene %s: %w: %q", s.Name, ErrUnknownComponent, name)
		}
	}

	root, err := build(rt, reg, &s.Root, nil)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Name, err)
	}
	return root, nil
}

func build(rt *xnew.Runtime, reg *Registry, spec *NodeSpec, parent *xnew.Node) (*xnew.Node, error) {
	opts := []xnew.NodeOption{xnew.WithParent(parent)}
	if spec.Tags != "" {
		opts = append(opts, xnew.WithTags(spec.Tags))
	}
	if spec.Element != nil {
		opts = append(opts, xnew.WithElement(*spec.Element))
	}
	if spec.Stopped {
		opts = append(opts, xnew.Stopped())
	}
	for _, c := range spec.Components {
		r, _ := reg.Get(c.Name)
		opts = append(opts, xnew.WithComponent(r.Build, xnew.Props(c.Props)))
	}

	n, err := rt.New(opts...)
	if err != nil {
		return nil, err
	}

	for i := range spec.Children {
		if _, err := build(rt, reg, &spec.Children[i], n); err != nil {
			n.Finalize()
			return nil, err
		}
	}
	return n, nil
}
