// Package config centralizes application configuration. Values come from a
// settings.env / .env file, a .daybrief.yaml config file, and environment
// variables, in the priority order viper establishes: explicit file, then
// env, then defaults. Collaborators receive the
// resolved structs at construction; nothing reads ambient state at call
// depth.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      App      `mapstructure:"app"`
	AI       AI       `mapstructure:"ai"`
	Email    Email    `mapstructure:"email"`
	Output   Output   `mapstructure:"output"`
	Schedule Schedule `mapstructure:"schedule"`
}

// App holds general application configuration.
type App struct {
	Debug      bool   `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	ConfigFile string `mapstructure:"config_file"`
}

// AI selects and configures the generation gateway backend.
type AI struct {
	Provider string       `mapstructure:"provider"` // "local" (llama.cpp) or "gemini"
	Local    LocalConfig  `mapstructure:"local"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

// LocalConfig holds llama.cpp server configuration.
type LocalConfig struct {
	ServerURL   string  `mapstructure:"server_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     string  `mapstructure:"timeout"`
}

// GeminiConfig holds hosted Gemini configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Email holds SMTP delivery configuration.
type Email struct {
	Sender      string `mapstructure:"sender"`
	AppPassword string `mapstructure:"app_password"`
	Receiver    string `mapstructure:"receiver"` // defaults to Sender when empty
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
}

// Output holds artifact output configuration.
type Output struct {
	Directory string `mapstructure:"directory"`
}

// Schedule holds cron scheduling configuration for unattended daily runs.
type Schedule struct {
	Cron         string `mapstructure:"cron"`          // cron expression for the daily run
	InputPattern string `mapstructure:"input_pattern"` // input path with a %s date slot
}

var globalConfig *Config

// Load loads the configuration from env files, config file, and
// environment variables. An explicit configFile takes precedence over
// discovery of .daybrief.yaml in the working directory and $HOME.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	loadEnvFile()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".daybrief")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.App.ConfigFile = viper.ConfigFileUsed()

	if config.Email.Receiver == "" {
		config.Email.Receiver = config.Email.Sender
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached configuration and viper state. Test helper.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// loadEnvFile loads settings.env, falling back to .env, when present.
// Credentials for email delivery historically live there.
func loadEnvFile() {
	for _, name := range []string{"settings.env", ".env"} {
		if _, err := os.Stat(name); err == nil {
			if err := godotenv.Overload(name); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: error loading %s: %v\n", name, err)
			}
			return
		}
	}
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("ai.provider", "local")
	viper.SetDefault("ai.local.server_url", "http://localhost:8080/v1")
	viper.SetDefault("ai.local.model", "local-model")
	viper.SetDefault("ai.local.temperature", 0.6)
	viper.SetDefault("ai.local.max_tokens", 1200)
	viper.SetDefault("ai.local.timeout", "180s")
	viper.SetDefault("ai.gemini.model", "gemini-flash-lite-latest")

	viper.SetDefault("email.smtp_host", "smtp.gmail.com")
	viper.SetDefault("email.smtp_port", 587)

	viper.SetDefault("output.directory", "digests")

	viper.SetDefault("schedule.cron", "0 22 * * *")
	viper.SetDefault("schedule.input_pattern", "browsing-digest-%s.json")
}

// bindEnvironmentVariables maps well-known environment variable names onto
// viper keys, first match wins.
func bindEnvironmentVariables() {
	bindEnvKeys("email.sender", []string{"EMAIL_SENDER"})
	bindEnvKeys("email.app_password", []string{"EMAIL_APP_PASSWORD"})
	bindEnvKeys("email.receiver", []string{"EMAIL_RECEIVER"})
	bindEnvKeys("email.smtp_host", []string{"SMTP_HOST", "EMAIL_SMTP_HOST"})

	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})
	bindEnvKeys("ai.local.server_url", []string{
		"DAYBRIEF_SERVER_URL",
		"LLAMA_SERVER_URL",
	})
	bindEnvKeys("ai.provider", []string{"DAYBRIEF_AI_PROVIDER"})

	bindEnvKeys("app.debug", []string{"DEBUG", "DAYBRIEF_DEBUG"})
}

// bindEnvKeys binds the first found environment variable to a viper key.
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}
