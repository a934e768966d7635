package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/YelzhanWeb/sous/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. SOUS_DATABASE_HOST.
const EnvPrefix = "SOUS"

type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Chat      ChatConfig      `yaml:"chat"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Database  DatabaseConfig  `yaml:"database"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
}

type ServiceConfig struct {
	Name            string   `yaml:"name"`
	Port            int      `yaml:"port"`
	LogLevel        string   `yaml:"log_level" split_words:"true"`
	BaseURL         string   `yaml:"base_url" split_words:"true"`
	DefaultLanguage string   `yaml:"default_language" split_words:"true"`
	DefaultMode     string   `yaml:"default_mode" split_words:"true"`
	AllowedOrigins  []string `yaml:"allowed_origins" split_words:"true"`
}

// ChatConfig holds the simulated typing delays and list sizes.
type ChatConfig struct {
	ReplyDelay          time.Duration `yaml:"reply_delay" split_words:"true"`
	DishesDelay         time.Duration `yaml:"dishes_delay" split_words:"true"`
	NextCategoriesDelay time.Duration `yaml:"next_categories_delay" split_words:"true"`
	RecommendationDelay time.Duration `yaml:"recommendation_delay" split_words:"true"`
	QuestionDelay       time.Duration `yaml:"question_delay" split_words:"true"`
	TextDelay           time.Duration `yaml:"text_delay" split_words:"true"`
	RecommendationCount int           `yaml:"recommendation_count" split_words:"true"`
	NextCategoryCount   int           `yaml:"next_category_count" split_words:"true"`
	UpsellCount         int           `yaml:"upsell_count" split_words:"true"`
}

// LifecycleConfig holds the delay spent in each status before the next.
type LifecycleConfig struct {
	CookingAfter   time.Duration `yaml:"cooking_after" split_words:"true"`
	ReadyAfter     time.Duration `yaml:"ready_after" split_words:"true"`
	CompletedAfter time.Duration `yaml:"completed_after" split_words:"true"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	MaxConns int    `yaml:"max_conns" split_words:"true"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Default returns the values the application was tuned with.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			Name:            "sous",
			Port:            3000,
			LogLevel:        "info",
			BaseURL:         "http://localhost:3000",
			DefaultLanguage: string(domain.LanguageRU),
			DefaultMode:     string(domain.OrderModeDineIn),
			AllowedOrigins:  []string{"*"},
		},
		Chat: ChatConfig{
			ReplyDelay:          600 * time.Millisecond,
			DishesDelay:         500 * time.Millisecond,
			NextCategoriesDelay: 1000 * time.Millisecond,
			RecommendationDelay: 600 * time.Millisecond,
			QuestionDelay:       500 * time.Millisecond,
			TextDelay:           800 * time.Millisecond,
			RecommendationCount: 4,
			NextCategoryCount:   2,
			UpsellCount:         5,
		},
		Lifecycle: LifecycleConfig{
			CookingAfter:   8 * time.Second,
			ReadyAfter:     12 * time.Second,
			CompletedAfter: 10 * time.Second,
		},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "sous", Database: "sous", MaxConns: 4},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest"},
	}
}

// Load reads the YAML file at path over the defaults, then applies a .env
// file from the working directory (if any) and SOUS_* environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if !domain.Language(c.Service.DefaultLanguage).Valid() {
		return fmt.Errorf("service.default_language %q: %w", c.Service.DefaultLanguage, domain.ErrUnknownLanguage)
	}
	if !domain.OrderMode(c.Service.DefaultMode).Valid() {
		return fmt.Errorf("service.default_mode %q: %w", c.Service.DefaultMode, domain.ErrInvalidOrderMode)
	}
	if c.Chat.RecommendationCount < 0 || c.Chat.NextCategoryCount < 0 || c.Chat.UpsellCount < 0 {
		return errors.New("chat counts must not be negative")
	}
	if c.Lifecycle.CookingAfter <= 0 || c.Lifecycle.ReadyAfter <= 0 || c.Lifecycle.CompletedAfter <= 0 {
		return errors.New("lifecycle delays must be positive")
	}
	return nil
}

func (c ServiceConfig) Language() domain.Language {
	return domain.Language(c.DefaultLanguage)
}

func (c ServiceConfig) Mode() domain.OrderMode {
	return domain.OrderMode(c.DefaultMode)
}

func (c LifecycleConfig) Plan() domain.LifecyclePlan {
	return domain.LifecyclePlan{
		CookingAfter:   c.CookingAfter,
		ReadyAfter:     c.ReadyAfter,
		CompletedAfter: c.CompletedAfter,
	}
}
