package strata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default viewport size used when a GameConfig leaves Width or Height unset.
const (
	defaultGameWidth  = 800
	defaultGameHeight = 600
)

var (
	// ErrEmptyLayerName is returned when a layer has no name.
	ErrEmptyLayerName = errors.New("strata: layer name is empty")
	// ErrDuplicateLayer is returned when two layers of a scene share a name.
	ErrDuplicateLayer = errors.New("strata: duplicate layer name")
	// ErrUnknownFormat is returned for project files that are neither YAML nor JSON.
	ErrUnknownFormat = errors.New("strata: unknown project file format")
	// ErrSceneNotFound is returned when a project has no scene with the requested name.
	ErrSceneNotFound = errors.New("strata: scene not found")
)

// Game supplies the default viewport size layers are created with.
type Game interface {
	DefaultWidth() float64
	DefaultHeight() float64
}

// GameConfig is the project-level game description.
type GameConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// DefaultWidth returns Width, or 800 when unset.
func (g GameConfig) DefaultWidth() float64 {
	if g.Width <= 0 {
		return defaultGameWidth
	}
	return g.Width
}

// DefaultHeight returns Height, or 600 when unset.
func (g GameConfig) DefaultHeight() float64 {
	if g.Height <= 0 {
		return defaultGameHeight
	}
	return g.Height
}

// EffectData describes one post-processing effect of a layer.
type EffectData struct {
	// Name identifies the effect within its layer; SetEffectParameter targets it.
	Name string `yaml:"name" json:"name"`
	// Type selects the filter kind. Empty means Name is used as the kind.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Parameters are the default values pushed when the layer is created.
	Parameters ParamTable `yaml:"parameters" json:"parameters"`
}

// Kind returns Type, falling back to Name.
func (e EffectData) Kind() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Name
}

func (e EffectData) clone() EffectData {
	e.Parameters = e.Parameters.clone()
	return e
}

// LayerData is the declarative description of a layer.
type LayerData struct {
	Name       string       `yaml:"name" json:"name"`
	Visibility bool         `yaml:"visibility" json:"visibility"`
	Effects    []EffectData `yaml:"effects" json:"effects"`
}

// layerDataWire distinguishes an omitted visibility flag from false.
type layerDataWire struct {
	Name       string       `yaml:"name" json:"name"`
	Visibility *bool        `yaml:"visibility" json:"visibility"`
	Effects    []EffectData `yaml:"effects" json:"effects"`
}

func (w layerDataWire) layerData() LayerData {
	d := LayerData{Name: w.Name, Visibility: true, Effects: w.Effects}
	if w.Visibility != nil {
		d.Visibility = *w.Visibility
	}
	return d
}

// UnmarshalYAML decodes a layer, defaulting visibility to true.
func (d *LayerData) UnmarshalYAML(node *yaml.Node) error {
	var w layerDataWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*d = w.layerData()
	return nil
}

// UnmarshalJSON decodes a layer, defaulting visibility to true.
func (d *LayerData) UnmarshalJSON(data []byte) error {
	var w layerDataWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = w.layerData()
	return nil
}

// SceneData lists the layers of a scene in drawing order.
type SceneData struct {
	Name   string      `yaml:"name" json:"name"`
	Layers []LayerData `yaml:"layers" json:"layers"`
}

// Validate checks that every layer has a unique, non-empty name.
func (s SceneData) Validate() error {
	seen := make(map[string]struct{}, len(s.Layers))
	for i, l := range s.Layers {
		if l.Name == "" {
			return fmt.Errorf("scene %q layer %d: %w", s.Name, i, ErrEmptyLayerName)
		}
		if _, dup := seen[l.Name]; dup {
			return fmt.Errorf("scene %q layer %q: %w", s.Name, l.Name, ErrDuplicateLayer)
		}
		seen[l.Name] = struct{}{}
	}
	return nil
}

// ProjectData is the top-level project file.
type ProjectData struct {
	Game   GameConfig  `yaml:"game" json:"game"`
	Scenes []SceneData `yaml:"scenes" json:"scenes"`
}

// Scene returns the scene with the given name.
func (p *ProjectData) Scene(name string) (SceneData, error) {
	for _, s := range p.Scenes {
		if s.Name == name {
			return s, nil
		}
	}
	return SceneData{}, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
}

// Format identifies a project file encoding.
type Format uint8

const (
	FormatYAML Format = iota // .yaml / .yml
	FormatJSON               // .json
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ParseProject decodes project data in the given format and validates
// every scene.
func ParseProject(data []byte, format Format) (*ProjectData, error) {
	var p ProjectData
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("strata: parse project: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("strata: parse project: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	for _, s := range p.Scenes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// LoadProject reads and parses a project file. The format is chosen from
// the extension.
func LoadProject(path string) (*ProjectData, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("strata: load %s: %w", path, err)
	}
	p, err := ParseProject(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
