package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// ArchiveConfig holds event archive settings.
type ArchiveConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	FlushEvery int  `json:"flushEvery" mapstructure:"flushEvery"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./matchcast-logs")

	viper.SetDefault("metadataPath", "./match_metadata.json")
	viper.SetDefault("feed.path", "-")

	viper.SetDefault("publisher.stdout.enabled", true)

	viper.SetDefault("publisher.websocket.enabled", false)
	viper.SetDefault("publisher.websocket.url", "ws://localhost:8765/events")

	viper.SetDefault("publisher.pubsub.enabled", false)
	viper.SetDefault("publisher.pubsub.projectId", "")
	viper.SetDefault("publisher.pubsub.topicId", "match-events")
	viper.SetDefault("publisher.pubsub.credentialsFile", "")

	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.flushEvery", 50)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "matchcast")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "matchcast-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("discovery.enabled", false)
	viper.SetDefault("discovery.serverUrl", "http://localhost:5000")
	viper.SetDefault("discovery.apiKey", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "matchcast")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("matchcast.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetOTelConfig returns the OTel configuration section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetArchiveConfig returns the event archive configuration section.
func GetArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		Enabled:    viper.GetBool("archive.enabled"),
		FlushEvery: viper.GetInt("archive.flushEvery"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
