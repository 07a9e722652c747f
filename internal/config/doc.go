// Package config provides configuration loading and validation for the
// dataset builder. It handles YAML-based configuration with struct
// validation and default values for all pipeline parameters.
package config
