package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	OpenAI   OpenAIConfig
	Search   SearchConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Enabled   bool
}

type OpenAIConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	DefaultModel string        `mapstructure:"default_model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds image search provider settings.
type SearchConfig struct {
	Pexels       ProviderCredentials `mapstructure:"pexels"`
	DataForSEO   ProviderCredentials `mapstructure:"dataforseo"`
	Everypixel   ProviderCredentials `mapstructure:"everypixel"`
	Shutterstock ProviderCredentials `mapstructure:"shutterstock"`

	// FreeSourceDomains is the substring allow-list used to classify
	// meta-search results as free-to-use.
	FreeSourceDomains []string `mapstructure:"free_source_domains"`

	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type ProviderCredentials struct {
	APIKey   string `mapstructure:"api_key"`
	Login    string `mapstructure:"login"`
	Password string `mapstructure:"password"`
	APIHost  string `mapstructure:"api_host"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Search.FreeSourceDomains) == 0 {
		config.Search.FreeSourceDomains = DefaultFreeSourceDomains()
	}

	return &config, nil
}

// DefaultFreeSourceDomains returns the built-in free-source allow-list.
func DefaultFreeSourceDomains() []string {
	return []string{"wikimedia", "commons", "flickr", "unsplash", "pexels", "pixabay"}
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
