package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/util"
)

const (
	// DefaultAPIListenAddress is the loopback address the daemon API binds to.
	DefaultAPIListenAddress = "127.0.0.1:53280"
	// DefaultUpdateEndpoint points to Quill's release metadata service. The
	// %platform, %arch and %version placeholders are substituted per request.
	DefaultUpdateEndpoint = "https://updates.quillchat.net/%platform/%arch/%version"
	// DefaultUpdateCheckDelaySeconds delays the automatic update check after
	// daemon startup.
	DefaultUpdateCheckDelaySeconds = 10
)

// defaultAllowedOrigins covers the packaged UI host plus the local dev server.
var defaultAllowedOrigins = []string{"quill://app", "http://localhost:1420"}

// ConfigInput carries configuration changes to the daemon
type ConfigInput struct {
	ConfigPath              string
	LogLevel                string
	LogFile                 string
	APIListenAddress        string
	AllowedOrigins          []string
	UpdateEndpoint          string
	UpdateCheckDelaySeconds *int
	DisableAutoUpdateCheck  *bool
	LaunchOnLogin           *bool
}

// Config Configuration type
type Config struct {
	LogLevel                string   `json:"log_level"`
	LogFile                 string   `json:"log_file"`
	APIListenAddress        string   `json:"api_listen_address"`
	AllowedOrigins          []string `json:"allowed_origins"`
	UpdateEndpoint          string   `json:"update_endpoint"`
	UpdateCheckDelaySeconds int      `json:"update_check_delay_seconds"`
	DisableAutoUpdateCheck  bool     `json:"disable_auto_update_check"`
	LaunchOnLogin           bool     `json:"launch_on_login"`
}

// ReadConfig read config file and return with Config. If it is not exists create a new with default values
func ReadConfig(configPath string) (*Config, error) {
	if util.FileExists(configPath) {
		config := &Config{}
		if _, err := util.ReadJson(configPath, config); err != nil {
			return nil, err
		}
		// initialize through apply() without changes
		if changed, err := config.apply(ConfigInput{}); err != nil {
			return nil, err
		} else if changed {
			if err = WriteOutConfig(configPath, config); err != nil {
				return nil, err
			}
		}

		return config, nil
	}

	cfg, err := createNewConfig(ConfigInput{ConfigPath: configPath})
	if err != nil {
		return nil, err
	}

	err = WriteOutConfig(configPath, cfg)
	return cfg, err
}

// UpdateOrCreateConfig reads existing config or generates a new one
func UpdateOrCreateConfig(input ConfigInput) (*Config, error) {
	if !util.FileExists(input.ConfigPath) {
		log.Infof("generating new config %s", input.ConfigPath)
		cfg, err := createNewConfig(input)
		if err != nil {
			return nil, err
		}
		err = WriteOutConfig(input.ConfigPath, cfg)
		return cfg, err
	}

	return update(input)
}

// WriteOutConfig write put the prepared config to the given path
func WriteOutConfig(path string, config *Config) error {
	return util.WriteJson(context.Background(), path, config)
}

func createNewConfig(input ConfigInput) (*Config, error) {
	config := &Config{}
	if _, err := config.apply(input); err != nil {
		return nil, err
	}

	return config, nil
}

func update(input ConfigInput) (*Config, error) {
	config := &Config{}

	if _, err := util.ReadJson(input.ConfigPath, config); err != nil {
		return nil, err
	}

	updated, err := config.apply(input)
	if err != nil {
		return nil, err
	}

	if updated {
		if err := util.WriteJson(context.Background(), input.ConfigPath, config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func (config *Config) apply(input ConfigInput) (updated bool, err error) {
	if input.LogLevel != "" && input.LogLevel != config.LogLevel {
		log.Infof("updating log level %s (old value %s)", input.LogLevel, config.LogLevel)
		config.LogLevel = input.LogLevel
		updated = true
	} else if config.LogLevel == "" {
		config.LogLevel = "info"
		updated = true
	}

	if input.LogFile != "" && input.LogFile != config.LogFile {
		config.LogFile = input.LogFile
		updated = true
	}

	if input.APIListenAddress != "" && input.APIListenAddress != config.APIListenAddress {
		log.Infof("updating api listen address %s (old value %s)", input.APIListenAddress, config.APIListenAddress)
		config.APIListenAddress = input.APIListenAddress
		updated = true
	} else if config.APIListenAddress == "" {
		config.APIListenAddress = DefaultAPIListenAddress
		updated = true
	}
	if _, _, err := net.SplitHostPort(config.APIListenAddress); err != nil {
		return false, fmt.Errorf("invalid api listen address %s: %w", config.APIListenAddress, err)
	}

	if input.AllowedOrigins != nil && !slices.Equal(input.AllowedOrigins, config.AllowedOrigins) {
		config.AllowedOrigins = slices.Clone(input.AllowedOrigins)
		updated = true
	} else if config.AllowedOrigins == nil {
		config.AllowedOrigins = slices.Clone(defaultAllowedOrigins)
		updated = true
	}

	if input.UpdateEndpoint != "" && input.UpdateEndpoint != config.UpdateEndpoint {
		log.Infof("updating update endpoint %s (old value %s)", input.UpdateEndpoint, config.UpdateEndpoint)
		config.UpdateEndpoint = input.UpdateEndpoint
		updated = true
	} else if config.UpdateEndpoint == "" {
		config.UpdateEndpoint = DefaultUpdateEndpoint
		updated = true
	}
	if err := validateEndpoint(config.UpdateEndpoint); err != nil {
		return false, err
	}

	if input.UpdateCheckDelaySeconds != nil && *input.UpdateCheckDelaySeconds != config.UpdateCheckDelaySeconds {
		config.UpdateCheckDelaySeconds = *input.UpdateCheckDelaySeconds
		updated = true
	} else if config.UpdateCheckDelaySeconds == 0 {
		// zero means unset, the delay is never disabled by shortening it
		config.UpdateCheckDelaySeconds = DefaultUpdateCheckDelaySeconds
		updated = true
	}
	if config.UpdateCheckDelaySeconds < 0 {
		return false, fmt.Errorf("update check delay must not be negative, got %d", config.UpdateCheckDelaySeconds)
	}

	if input.DisableAutoUpdateCheck != nil && *input.DisableAutoUpdateCheck != config.DisableAutoUpdateCheck {
		config.DisableAutoUpdateCheck = *input.DisableAutoUpdateCheck
		updated = true
	}

	if input.LaunchOnLogin != nil && *input.LaunchOnLogin != config.LaunchOnLogin {
		config.LaunchOnLogin = *input.LaunchOnLogin
		updated = true
	}

	return updated, nil
}

// validateEndpoint rejects endpoints the source client could not call. The
// substitution placeholders are allowed anywhere in the URL.
func validateEndpoint(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid update endpoint %s: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid update endpoint %s: scheme must be http or https", endpoint)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid update endpoint %s: missing host", endpoint)
	}
	return nil
}
