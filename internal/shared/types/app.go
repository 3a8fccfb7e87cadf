package types

// AppID identifies an app in the catalog. The empty AppID means no app is
// foregrounded (home screen).
type AppID string

// NoApp is the AppID of the home screen.
const NoApp AppID = ""

// String returns the id as a plain string
func (id AppID) String() string { return string(id) }

// TileSize is the layout-size tag of a home screen tile
type TileSize string

const (
	SizeSmall  TileSize = "small"
	SizeMedium TileSize = "medium"
	SizeLarge  TileSize = "large"
	SizeWide   TileSize = "wide"
)

// Valid reports whether the size is one of the known tile sizes
func (s TileSize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeWide:
		return true
	}
	return false
}

// AppDefinition is the static description of an app tile supplied by the host shell
type AppDefinition struct {
	ID            AppID    `json:"id" yaml:"id" toml:"id"`
	Name          string   `json:"name" yaml:"name" toml:"name"`
	Icon          string   `json:"icon" yaml:"icon" toml:"icon"`
	Color         string   `json:"color" yaml:"color" toml:"color"`
	Size          TileSize `json:"size" yaml:"size" toml:"size"`
	Notifications *int     `json:"notifications,omitempty" yaml:"notifications,omitempty" toml:"notifications,omitempty"` // Badge count
	Tip           string   `json:"tip,omitempty" yaml:"tip,omitempty" toml:"tip,omitempty"`
}

// ShellState describes the host shell around the foregrounded app
type ShellState struct {
	Locked       bool    `json:"locked"`
	SwitcherOpen bool    `json:"switcher_open"`
	Running      []AppID `json:"running"`
	ActiveApp    AppID   `json:"active_app,omitempty"`
}
