package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/taskapi/types"
	"github.com/spf13/viper"
)

const (
	configName = ".taskapi"
	envPrefix  = "TASKAPI"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// setDefaults registers every configuration key so that AutomaticEnv can
// resolve TASKAPI_* variables during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdownTimeout", "5s")
	v.SetDefault("server.allowedOrigins", []string{})

	v.SetDefault("data.backend", "file")
	v.SetDefault("data.file", "task.json")
	v.SetDefault("data.format", "")
	v.SetDefault("data.lock", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.crashDir", "")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	cfg, err := loadConfig(viper.GetViper(), viper.GetString("config"))
	if err != nil {
		HandleFatalError("Invalid configuration. Run with --verbose for details.", err)
	}
	GlobalAppConfig = cfg
}

// loadConfig layers defaults, the config file and TASKAPI_* environment
// variables into an AppConfig and validates it. An explicit cfgFile that
// does not exist is an error; a missing default config file is not.
func loadConfig(v *viper.Viper, cfgFile string) (types.AppConfig, error) {
	v.SetEnvPrefix(envPrefix)                          // e.g., TASKAPI_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores in env var names
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case cfgFile != "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
			return types.AppConfig{}, fmt.Errorf("config file not found: %s", cfgFile)
		case errors.As(err, &notFound):
			LogError("No config file found. Using defaults and environment variables.", nil)
		default:
			return types.AppConfig{}, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
	} else {
		LogError("Using config file: "+v.ConfigFileUsed(), nil)
	}

	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return types.AppConfig{}, fmt.Errorf("configuration validation error: %w", err)
	}
	return cfg, nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
