// Package config handles loading and validation of the descbench runtime
// settings from environment variables and an optional config file. It does
// not parse experiment documents; those belong to package experiment.
package config
