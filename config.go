package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults mirror the constants the tool has always shipped with.
const (
	defaultTimezone              = "Asia/Tokyo"
	defaultBackDays              = 7
	defaultAheadDays             = 30
	defaultTokenPath             = "token.json"
	defaultGoogleCredentialsPath = "credentials.json"
)

// GoogleCredentials represents the structure of Google OAuth credentials JSON file.
type GoogleCredentials struct {
	Installed struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"installed"`
	Web struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"web"`
}

// LoadGoogleCredentials loads Google OAuth credentials from a JSON file.
func LoadGoogleCredentials(path string) (clientID, clientSecret string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds GoogleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", "", fmt.Errorf("failed to parse credentials file: %w", err)
	}

	// Try "installed" first (for desktop apps), then "web"
	if creds.Installed.ClientID != "" {
		return creds.Installed.ClientID, creds.Installed.ClientSecret, nil
	}
	if creds.Web.ClientID != "" {
		return creds.Web.ClientID, creds.Web.ClientSecret, nil
	}

	return "", "", fmt.Errorf("no client_id found in credentials file (expected 'installed' or 'web' section)")
}

// Config holds the resolved configuration for one sync run.
type Config struct {
	Timezone              string
	BackDays              int
	AheadDays             int
	OutlookCalendarPath   string
	TokenPath             string
	GoogleCredentialsPath string
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return location, nil
}

// fileConfig is the JSON config file format. Day counts are pointers so
// an explicit 0 can be told apart from an absent field.
type fileConfig struct {
	Timezone              string `json:"timezone,omitempty"`
	BackDays              *int   `json:"back_days,omitempty"`
	AheadDays             *int   `json:"ahead_days,omitempty"`
	OutlookCalendarPath   string `json:"outlook_calendar_path,omitempty"`
	TokenPath             string `json:"token_path,omitempty"`
	GoogleCredentialsPath string `json:"google_credentials_path,omitempty"`
}

// loadConfigFile loads configuration from a JSON file.
func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config fileConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// parseDays parses a day-count setting. Negative values are rejected.
func parseDays(name, value string) (int, error) {
	days, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, value)
	}
	if days < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", name, days)
	}
	return days, nil
}

// LoadConfig loads configuration with the following precedence (highest to lowest):
// 1. Command-line flags
// 2. Environment variables
// 3. Config file
// 4. Defaults
// The day-count flags arrive as strings so that an unset flag can be told
// apart from an explicit zero.
func LoadConfig(configFile, timezoneFlag, backDaysFlag, aheadDaysFlag, outlookPathFlag, tokenPathFlag, credentialsPathFlag string) (*Config, error) {
	config := &Config{
		Timezone:              defaultTimezone,
		BackDays:              defaultBackDays,
		AheadDays:             defaultAheadDays,
		TokenPath:             defaultTokenPath,
		GoogleCredentialsPath: defaultGoogleCredentialsPath,
	}

	// Step 1: Load from config file if provided
	if configFile != "" {
		file, err := loadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		if file.Timezone != "" {
			config.Timezone = file.Timezone
		}
		if file.BackDays != nil {
			config.BackDays = *file.BackDays
		}
		if file.AheadDays != nil {
			config.AheadDays = *file.AheadDays
		}
		if file.OutlookCalendarPath != "" {
			config.OutlookCalendarPath = file.OutlookCalendarPath
		}
		if file.TokenPath != "" {
			config.TokenPath = file.TokenPath
		}
		if file.GoogleCredentialsPath != "" {
			config.GoogleCredentialsPath = file.GoogleCredentialsPath
		}
	}

	// Step 2: Override with environment variables
	if timezone := os.Getenv("TIMEZONE"); timezone != "" {
		config.Timezone = timezone
	}
	if backDays := os.Getenv("BACK_DAYS"); backDays != "" {
		days, err := parseDays("BACK_DAYS", backDays)
		if err != nil {
			return nil, err
		}
		config.BackDays = days
	}
	if aheadDays := os.Getenv("AHEAD_DAYS"); aheadDays != "" {
		days, err := parseDays("AHEAD_DAYS", aheadDays)
		if err != nil {
			return nil, err
		}
		config.AheadDays = days
	}
	if outlookPath := os.Getenv("OUTLOOK_CALENDAR_PATH"); outlookPath != "" {
		config.OutlookCalendarPath = outlookPath
	}
	if tokenPath := os.Getenv("TOKEN_PATH"); tokenPath != "" {
		config.TokenPath = tokenPath
	}
	if credentialsPath := os.Getenv("GOOGLE_CREDENTIALS_PATH"); credentialsPath != "" {
		config.GoogleCredentialsPath = credentialsPath
	}

	// Step 3: Override with command-line flags (highest priority)
	if timezoneFlag != "" {
		config.Timezone = timezoneFlag
	}
	if backDaysFlag != "" {
		days, err := parseDays("back-days", backDaysFlag)
		if err != nil {
			return nil, err
		}
		config.BackDays = days
	}
	if aheadDaysFlag != "" {
		days, err := parseDays("ahead-days", aheadDaysFlag)
		if err != nil {
			return nil, err
		}
		config.AheadDays = days
	}
	if outlookPathFlag != "" {
		config.OutlookCalendarPath = outlookPathFlag
	}
	if tokenPathFlag != "" {
		config.TokenPath = tokenPathFlag
	}
	if credentialsPathFlag != "" {
		config.GoogleCredentialsPath = credentialsPathFlag
	}

	// Step 4: Validate required fields
	if config.OutlookCalendarPath == "" {
		return nil, fmt.Errorf("outlook_calendar_path must be provided via --outlook-calendar-path flag, OUTLOOK_CALENDAR_PATH environment variable, or config file")
	}
	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}

	return config, nil
}
