package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Network settings
	Network   string `mapstructure:"network" yaml:"network"`
	RPCUrl    string `mapstructure:"rpc_url" yaml:"rpc_url"`
	WSUrl     string `mapstructure:"ws_url" yaml:"ws_url"`
	RPCAPIKey string `mapstructure:"rpc_api_key" yaml:"rpc_api_key"`

	// Candy machine settings
	CandyMachineID string `mapstructure:"candy_machine_id" yaml:"candy_machine_id"`

	// Wallet settings
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`
	Mnemonic   string `mapstructure:"mnemonic" yaml:"mnemonic"`

	// Payment token display settings
	SPLToken SPLTokenConfig `mapstructure:"spl_token" yaml:"spl_token"`

	// Mint attempt settings
	Mint MintConfig `mapstructure:"mint" yaml:"mint"`

	// Logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SPLTokenConfig describes how prices denominated in an SPL payment token
// are displayed. Only used when the candy machine is configured with a
// payment mint; native SOL payment ignores these.
type SPLTokenConfig struct {
	Decimals int    `mapstructure:"decimals" yaml:"decimals"`
	Label    string `mapstructure:"label" yaml:"label"`
}

// MintConfig contains confirmation polling and refresh settings
type MintConfig struct {
	PollIntervalMs     int     `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	PollMaxIntervalMs  int     `mapstructure:"poll_max_interval_ms" yaml:"poll_max_interval_ms"`
	PollBackoffFactor  float64 `mapstructure:"poll_backoff_factor" yaml:"poll_backoff_factor"`
	ConfirmTimeoutSec  int     `mapstructure:"confirm_timeout_sec" yaml:"confirm_timeout_sec"`
	RefreshIntervalSec int     `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
	AttemptLogDir      string  `mapstructure:"attempt_log_dir" yaml:"attempt_log_dir"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	LogToFile   bool   `mapstructure:"log_to_file" yaml:"log_to_file"`
	LogFilePath string `mapstructure:"log_file_path" yaml:"log_file_path"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string, envPath string) (*Config, error) {
	config := &Config{}

	// First, load .env file if specified or default locations
	if err := loadEnvFile(envPath); err != nil {
		fmt.Printf("Warning: Failed to load .env file: %v\n", err)
	}

	// Set default values
	setDefaults()

	// Set config file path
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("mint")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.candy-machine-mint")
	}

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("CMMINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Manually bind environment variables that viper might miss
	bindEnvVariables()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
	}

	// Unmarshal config
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate and post-process config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile(envPath string) error {
	var envFiles []string

	if envPath != "" {
		envFiles = append(envFiles, envPath)
	}

	envFiles = append(envFiles, []string{
		".env",
		"./.env",
		"configs/.env",
	}...)

	var envFile string
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			envFile = file
			break
		}
	}

	if envFile == "" {
		if envPath != "" {
			return fmt.Errorf("specified .env file not found: %s", envPath)
		}
		return fmt.Errorf(".env file not found in any of the expected locations: %v", envFiles)
	}

	file, err := os.Open(envFile)
	if err != nil {
		return fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				value := strings.TrimSpace(parts[1])

				if len(value) >= 2 {
					if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
						(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
						value = value[1 : len(value)-1]
					}
				}

				os.Setenv(key, value)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	return nil
}

// bindEnvVariables manually binds environment variables that viper might miss
func bindEnvVariables() {
	viper.BindEnv("network", "CMMINT_NETWORK")
	viper.BindEnv("rpc_url", "CMMINT_RPC_URL")
	viper.BindEnv("ws_url", "CMMINT_WS_URL")
	viper.BindEnv("rpc_api_key", "CMMINT_RPC_API_KEY")
	viper.BindEnv("candy_machine_id", "CMMINT_CANDY_MACHINE_ID")
	viper.BindEnv("private_key", "CMMINT_PRIVATE_KEY")
	viper.BindEnv("mnemonic", "CMMINT_MNEMONIC")

	viper.BindEnv("spl_token.decimals", "CMMINT_SPL_TOKEN_DECIMALS")
	viper.BindEnv("spl_token.label", "CMMINT_SPL_TOKEN_LABEL")

	viper.BindEnv("mint.poll_interval_ms", "CMMINT_MINT_POLL_INTERVAL_MS")
	viper.BindEnv("mint.poll_max_interval_ms", "CMMINT_MINT_POLL_MAX_INTERVAL_MS")
	viper.BindEnv("mint.poll_backoff_factor", "CMMINT_MINT_POLL_BACKOFF_FACTOR")
	viper.BindEnv("mint.confirm_timeout_sec", "CMMINT_MINT_CONFIRM_TIMEOUT_SEC")
	viper.BindEnv("mint.refresh_interval_sec", "CMMINT_MINT_REFRESH_INTERVAL_SEC")
	viper.BindEnv("mint.attempt_log_dir", "CMMINT_MINT_ATTEMPT_LOG_DIR")

	viper.BindEnv("logging.level", "CMMINT_LOGGING_LEVEL")
	viper.BindEnv("logging.format", "CMMINT_LOGGING_FORMAT")
	viper.BindEnv("logging.log_to_file", "CMMINT_LOGGING_LOG_TO_FILE")
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("network", "mainnet")
	viper.SetDefault("rpc_url", "")
	viper.SetDefault("ws_url", "")
	viper.SetDefault("candy_machine_id", "")

	viper.SetDefault("spl_token.decimals", DefaultSPLTokenDecimals)
	viper.SetDefault("spl_token.label", DefaultSPLTokenLabel)

	viper.SetDefault("mint.poll_interval_ms", PollIntervalMs)
	viper.SetDefault("mint.poll_max_interval_ms", PollMaxIntervalMs)
	viper.SetDefault("mint.poll_backoff_factor", PollBackoffFactor)
	viper.SetDefault("mint.confirm_timeout_sec", ConfirmTimeoutSec)
	viper.SetDefault("mint.refresh_interval_sec", RefreshIntervalSec)
	viper.SetDefault("mint.attempt_log_dir", "attempts")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.log_to_file", false)
	viper.SetDefault("logging.log_file_path", "logs/mint.log")
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Set RPC and WS URLs if not provided
	if config.RPCUrl == "" {
		config.RPCUrl = GetRPCEndpoint(config.Network)
	}
	if config.WSUrl == "" {
		config.WSUrl = GetWSEndpoint(config.Network)
	}

	if config.CandyMachineID == "" {
		return fmt.Errorf("candy_machine_id is required")
	}

	if config.SPLToken.Decimals < 0 || config.SPLToken.Decimals > 18 {
		return fmt.Errorf("spl_token.decimals must be between 0 and 18")
	}

	if config.Mint.PollIntervalMs <= 0 {
		return fmt.Errorf("mint.poll_interval_ms must be positive")
	}
	if config.Mint.PollMaxIntervalMs < config.Mint.PollIntervalMs {
		return fmt.Errorf("mint.poll_max_interval_ms must not be below mint.poll_interval_ms")
	}
	if config.Mint.PollBackoffFactor < 1.0 {
		return fmt.Errorf("mint.poll_backoff_factor must be at least 1.0")
	}
	if config.Mint.ConfirmTimeoutSec <= 0 {
		return fmt.Errorf("mint.confirm_timeout_sec must be positive")
	}

	// Create log directories if they don't exist
	if config.Logging.LogToFile {
		logDir := filepath.Dir(config.Logging.LogFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	if config.Mint.AttemptLogDir != "" {
		if err := os.MkdirAll(config.Mint.AttemptLogDir, 0755); err != nil {
			return fmt.Errorf("failed to create attempt log directory %s: %w", config.Mint.AttemptLogDir, err)
		}
	}

	return nil
}

// PollInterval returns the initial confirmation poll interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Mint.PollIntervalMs) * time.Millisecond
}

// PollMaxInterval returns the upper bound for the poll backoff
func (c *Config) PollMaxInterval() time.Duration {
	return time.Duration(c.Mint.PollMaxIntervalMs) * time.Millisecond
}

// ConfirmTimeout returns the overall confirmation deadline
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.Mint.ConfirmTimeoutSec) * time.Second
}

// RefreshInterval returns the periodic state refresh interval
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Mint.RefreshIntervalSec) * time.Second
}
