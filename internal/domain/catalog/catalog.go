// Package catalog holds the static app definitions rendered as home screen
// tiles. The default catalog is embedded; operators can supply their own as
// YAML, TOML or JSON.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/novashell/internal/shared/types"
)

var (
	// ErrInvalidCatalog is returned for catalogs that fail validation
	ErrInvalidCatalog = errors.New("invalid app catalog")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

//go:embed apps.yaml
var defaultCatalog []byte

// Format is a catalog encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// document is the on-disk shape shared by every format
type document struct {
	Apps []types.AppDefinition `json:"apps" yaml:"apps" toml:"apps"`
}

// Catalog is an immutable, validated list of app definitions
type Catalog struct {
	apps  []types.AppDefinition
	index map[types.AppID]int
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded apps.yaml: %v", err))
	}
	return c
}

// Load reads a catalog file, choosing the decoder from its extension
func Load(path string) (*Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// FormatOf maps a file extension to a Format
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Parse decodes and validates a catalog document
func Parse(data []byte, format Format) (*Catalog, error) {
	var doc document

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatJSON:
		err = sonic.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s catalog: %w", format, err)
	}

	return New(doc.Apps)
}

// New validates apps and builds a catalog. Empty sizes default to medium.
func New(apps []types.AppDefinition) (*Catalog, error) {
	if len(apps) == 0 {
		return nil, fmt.Errorf("%w: no apps", ErrInvalidCatalog)
	}

	c := &Catalog{
		apps:  make([]types.AppDefinition, 0, len(apps)),
		index: make(map[types.AppID]int, len(apps)),
	}

	for i, app := range apps {
		app.Name = strings.TrimSpace(app.Name)
		switch {
		case app.ID == types.NoApp:
			return nil, fmt.Errorf("%w: app %d has no id", ErrInvalidCatalog, i)
		case app.Name == "":
			return nil, fmt.Errorf("%w: app %q has no name", ErrInvalidCatalog, app.ID)
		case app.Notifications != nil && *app.Notifications < 0:
			return nil, fmt.Errorf("%w: app %q has a negative badge", ErrInvalidCatalog, app.ID)
		}
		if app.Size == "" {
			app.Size = types.SizeMedium
		}
		if !app.Size.Valid() {
			return nil, fmt.Errorf("%w: app %q has unknown size %q", ErrInvalidCatalog, app.ID, app.Size)
		}
		if _, dup := c.index[app.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate app id %q", ErrInvalidCatalog, app.ID)
		}

		c.index[app.ID] = len(c.apps)
		c.apps = append(c.apps, app)
	}

	return c, nil
}

// Get returns the definition of id
func (c *Catalog) Get(id types.AppID) (types.AppDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.AppDefinition{}, false
	}
	return c.apps[i], true
}

// Has reports whether id is in the catalog
func (c *Catalog) Has(id types.AppID) bool {
	_, ok := c.index[id]
	return ok
}

// List returns every app in declaration order
func (c *Catalog) List() []types.AppDefinition {
	out := make([]types.AppDefinition, len(c.apps))
	copy(out, c.apps)
	return out
}

// Len returns the number of apps
func (c *Catalog) Len() int {
	return len(c.apps)
}

// Search returns the apps whose name contains query, ignoring case. An empty
// query matches everything.
func (c *Catalog) Search(query string) []types.AppDefinition {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.List()
	}

	var out []types.AppDefinition
	for _, app := range c.apps {
		if strings.Contains(strings.ToLower(app.Name), query) {
			out = append(out, app)
		}
	}
	return out
}

// Tips returns the contextual tip text per app, skipping apps without one
func (c *Catalog) Tips() map[types.AppID]string {
	tips := make(map[types.AppID]string, len(c.apps))
	for _, app := range c.apps {
		if app.Tip != "" {
			tips[app.ID] = app.Tip
		}
	}
	return tips
}
