package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	RedisHost     string `env:"REDIS_HOST"     envDefault:"localhost"`
	RedisPort     uint16 `env:"REDIS_PORT"     envDefault:"6379"   validate:"min=1000,max=65535"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"debate_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"debate_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"debate_db"`
	RunMigrations    bool   `env:"RUN_MIGRATIONS"    envDefault:"true"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`

	JwtSecret string        `env:"JWT_SECRET,required" validate:"min=16"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"           envDefault:"1h"    validate:"min=1m"`

	OpenAIApiKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"  envDefault:"https://api.openai.com/v1" validate:"url"`
	OpenAIModel     string `env:"OPENAI_MODEL"     envDefault:"gpt-3.5-turbo"`
	ValuesExchanges int    `env:"VALUES_EXCHANGES" envDefault:"5" validate:"min=1,max=20"`

	NewsApiKey string `env:"NEWS_API_KEY"`
	NewsApiURL string `env:"NEWS_API_URL" envDefault:"https://newsapi.org/v2" validate:"url"`

	MatchPartitions        int           `env:"MATCH_PARTITIONS"         envDefault:"8"  validate:"min=1,max=1024"`
	MatchWaitTimeout       time.Duration `env:"MATCH_WAIT_TIMEOUT"       envDefault:"0s" validate:"min=0"`
	TopicTrendingThreshold int           `env:"TOPIC_TRENDING_THRESHOLD" envDefault:"10" validate:"min=0"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
