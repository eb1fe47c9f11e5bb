// Package sizes holds the registry of named image-size variants.
package sizes

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Size is a registered image-size variant.
type Size struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Crop   bool   `yaml:"crop"`
}

// Registry is the set of registered size names. Membership is the only
// validation the endpoint performs: unknown names are ignored, never
// rejected.
type Registry struct {
	sizes map[string]Size
}

// Defaults returns the conventional registered sizes.
func Defaults() *Registry {
	r := &Registry{sizes: make(map[string]Size)}
	r.add(Size{Name: "thumbnail", Width: 150, Height: 150, Crop: true})
	r.add(Size{Name: "medium", Width: 300, Height: 300})
	r.add(Size{Name: "medium_large", Width: 768})
	r.add(Size{Name: "large", Width: 1024, Height: 1024})
	return r
}

// Load reads registered sizes from a YAML file:
//
//	- name: medium
//	  width: 300
//	  height: 300
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sizes file: %w", err)
	}
	var list []Size
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse sizes file %s: %w", path, err)
	}
	r := &Registry{sizes: make(map[string]Size, len(list))}
	for _, s := range list {
		if s.Name == "" {
			return nil, fmt.Errorf("size entry in %s has no name", path)
		}
		r.add(s)
	}
	return r, nil
}

func (r *Registry) add(s Size) {
	r.sizes[s.Name] = s
}

// Has reports whether name is a registered size.
func (r *Registry) Has(name string) bool {
	_, ok := r.sizes[name]
	return ok
}

// Get returns the registered size for name.
func (r *Registry) Get(name string) (Size, bool) {
	s, ok := r.sizes[name]
	return s, ok
}

// Names returns the registered size names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.sizes))
	for name := range r.sizes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
