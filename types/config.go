/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool         `mapstructure:"verbose"`
	Config  string       `mapstructure:"config"`
	Server  ServerConfig `mapstructure:"server" validate:"required"`
	Data    DataConfig   `mapstructure:"data" validate:"required"`
	Log     LogConfig    `mapstructure:"log"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"omitempty,hostname|ip"`
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	// AllowedOrigins enables CORS handling for the listed origins
	AllowedOrigins []string `mapstructure:"allowedOrigins" validate:"omitempty,dive,url"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
	File    string `mapstructure:"file" validate:"required"`
	Format  string `mapstructure:"format" validate:"omitempty,oneof=json yaml toml"`
	// Lock takes an advisory lock file next to the data file around every operation
	Lock bool `mapstructure:"lock"`
}

// LogConfig controls the structured logger and crash logs
type LogConfig struct {
	Level    string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"omitempty,oneof=auto text json logfmt"`
	CrashDir string `mapstructure:"crashDir"`
}
