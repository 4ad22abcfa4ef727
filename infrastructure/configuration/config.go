package configuration

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"tubetrends/infrastructure/logger"
)

type Config struct {
	App      App      `json:"app"`
	YouTube  YouTube  `json:"youtube"`
	Analysis Analysis `json:"analysis"`
	Logger   Logger   `json:"logger"`
}

// App holds the output locations of the pipeline.
type App struct {
	DataDir   string `json:"dataDir"`
	OutputDir string `json:"outputDir"`
}

// YouTube holds the Data API v3 client configuration.
type YouTube struct {
	APIKey            string  `json:"apiKey"`
	PageSize          int64   `json:"pageSize"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	MaxRetries        int     `json:"maxRetries"`
}

// Analysis holds the growth-analyzer tunables. None of these have a single
// correct value; the defaults are documented in applyDefaults.
type Analysis struct {
	TakeoffThreshold          float64 `json:"takeoffThreshold"`
	RollingWindowMonths       int     `json:"rollingWindowMonths"`
	RetentionWindowMonths     int     `json:"retentionWindowMonths"`
	MinWindowMonths           int     `json:"minWindowMonths"`
	ExtrapolationWindowMonths int     `json:"extrapolationWindowMonths"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	LoadConfig()
	applyDefaults(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found, using defaults")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// applyDefaults resolves env fallbacks and fills documented defaults for
// anything the config file left unset.
func applyDefaults(C *Config) {
	C.YouTube.APIKey = getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	C.App.DataDir = getConfigValue(C.App.DataDir, "DATA_DIR", "data")
	C.App.OutputDir = getConfigValue(C.App.OutputDir, "OUTPUT_DIR", "visualizations")

	if C.YouTube.PageSize <= 0 || C.YouTube.PageSize > 50 {
		C.YouTube.PageSize = 50 // API maximum for playlistItems.list
	}
	if C.YouTube.RequestsPerSecond <= 0 {
		C.YouTube.RequestsPerSecond = 2
	}
	if C.YouTube.MaxRetries <= 0 {
		C.YouTube.MaxRetries = 5
	}

	if C.Analysis.TakeoffThreshold <= 0 {
		C.Analysis.TakeoffThreshold = 0.5
	}
	if C.Analysis.RollingWindowMonths <= 0 {
		C.Analysis.RollingWindowMonths = 6
	}
	if C.Analysis.RetentionWindowMonths <= 0 {
		C.Analysis.RetentionWindowMonths = 12
	}
	if C.Analysis.MinWindowMonths <= 0 {
		C.Analysis.MinWindowMonths = 3
	}
	if C.Analysis.ExtrapolationWindowMonths <= 0 {
		C.Analysis.ExtrapolationWindowMonths = 6
	}

	if C.YouTube.APIKey == "" {
		logger.GetLogger().Warn("YouTube.APIKey not set; fetch commands will fail. Provide YOUTUBE_API_KEY via environment.")
	}
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && configValue != "YOUR_API_KEY" {
		return configValue
	}
	return defaultValue
}
