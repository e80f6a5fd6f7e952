package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// App mode & server
	Mode       string
	ServerAddr string

	// Kafka (empty broker means the in-process channel broker is used)
	KafkaBroker    string
	KafkaTopic     string
	KafkaGroupID   string
	KafkaPartition int
	KafkaReadTO    time.Duration
	KafkaWriteTO   time.Duration

	// Observability
	MetricsAddr string

	// Seed demo users (alice, bob) at startup
	SeedUsers bool

	// Per-client request rate limiting (disabled when RPS <= 0)
	RateLimitRPS   float64
	RateLimitBurst int
}

var cfg *Config

// Init loads the config using Viper and returns it
func Init() *Config {
	viper.SetDefault("MODE", "single")
	viper.SetDefault("SERVER_ADDR", ":8080")

	viper.SetDefault("KAFKA_BROKER", "")
	viper.SetDefault("KAFKA_TOPIC", "social-events")
	viper.SetDefault("KAFKA_GROUP_ID", "notify-group")
	viper.SetDefault("KAFKA_PARTITION", 0)
	viper.SetDefault("KAFKA_READ_TIMEOUT", "10s")
	viper.SetDefault("KAFKA_WRITE_TIMEOUT", "10s")

	viper.SetDefault("METRICS_ADDR", "")
	viper.SetDefault("SEED_USERS", true)
	viper.SetDefault("RATE_LIMIT_RPS", 0.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)

	// Load env variables
	viper.AutomaticEnv()

	// Optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	cfg = &Config{
		Mode:           viper.GetString("MODE"),
		ServerAddr:     viper.GetString("SERVER_ADDR"),
		KafkaBroker:    viper.GetString("KAFKA_BROKER"),
		KafkaTopic:     viper.GetString("KAFKA_TOPIC"),
		KafkaGroupID:   viper.GetString("KAFKA_GROUP_ID"),
		KafkaPartition: viper.GetInt("KAFKA_PARTITION"),
		KafkaReadTO:    parseDuration(viper.GetString("KAFKA_READ_TIMEOUT"), 10*time.Second),
		KafkaWriteTO:   parseDuration(viper.GetString("KAFKA_WRITE_TIMEOUT"), 10*time.Second),
		MetricsAddr:    viper.GetString("METRICS_ADDR"),
		SeedUsers:      viper.GetBool("SEED_USERS"),
		RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
	}

	return cfg
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

// Get returns the loaded config instance
func Get() *Config {
	return cfg
}
