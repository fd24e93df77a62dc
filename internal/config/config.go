package config

// Config holds the runtime settings of the descbench binary. Experiment
// definitions live in their own YAML documents (see package experiment);
// this struct only covers how the tool itself runs.
type Config struct {
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Runner   RunnerConfig   `mapstructure:"runner" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig overrides the connection string declared by an experiment
// document. An empty URL keeps the document's value.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,startswith=sqlite://|startswith=postgres://|startswith=postgresql://"`
}

// RunnerConfig contains settings for how experiment documents are resolved.
type RunnerConfig struct {
	// ConfigDir is searched for experiment documents given by bare name.
	ConfigDir string `mapstructure:"config_dir" validate:"required"`
	// MigrationTimeout bounds schema migration of the run store, in seconds.
	MigrationTimeout int `mapstructure:"migration_timeout" validate:"gt=0"`
}
