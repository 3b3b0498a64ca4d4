package config

// ConfigFileName is the widget configuration file expected at the vault root.
const ConfigFileName = "facet.yaml"

// ConfigFile represents the structure of facet.yaml.
type ConfigFile struct {
	Version int          `yaml:"version"`
	Widgets []*WidgetDTO `yaml:"widgets"`
}

// WidgetDTO represents a widget definition in the configuration.
type WidgetDTO struct {
	ID       string     `yaml:"id"`
	Location string     `yaml:"location"`
	Type     string     `yaml:"type"`
	Source   string     `yaml:"source"`
	Options  OptionsDTO `yaml:"options"`
}

// OptionsDTO represents the type-specific options of a widget.
type OptionsDTO struct {
	Limit   int      `yaml:"limit"`
	GroupBy []string `yaml:"groupBy"`
}
