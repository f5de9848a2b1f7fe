package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Quiz   QuizConfig
	Store  StoreConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Logger LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// QuizConfig holds the pipeline knobs. NewsTimeout bounds the wait for
// article retrieval; GenerationTimeout bounds the wait for the LLM call.
type QuizConfig struct {
	Model             string
	NewsTimeout       time.Duration
	GenerationTimeout time.Duration
	ArticlesPerTopic  int
	WorkerPoolSize    int
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" or "redis"
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	SecretKey      string        `yaml:"secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 60)
	viper.SetDefault("quiz.model", "gemini-2.5-flash")
	viper.SetDefault("quiz.news_timeout", 10)
	viper.SetDefault("quiz.generation_timeout", 30)
	viper.SetDefault("quiz.articles_per_topic", 3)
	viper.SetDefault("quiz.worker_pool_size", 16)
	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("jwt.access_token_ttl", 720)
	viper.SetDefault("logger.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Quiz: QuizConfig{
			Model:             viper.GetString("quiz.model"),
			NewsTimeout:       viper.GetDuration("quiz.news_timeout") * time.Second,
			GenerationTimeout: viper.GetDuration("quiz.generation_timeout") * time.Second,
			ArticlesPerTopic:  viper.GetInt("quiz.articles_per_topic"),
			WorkerPoolSize:    viper.GetInt("quiz.worker_pool_size"),
		},
		Store: StoreConfig{
			Backend: viper.GetString("store.backend"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:      viper.GetString("jwt.secret_key"),
			AccessTokenTTL: viper.GetDuration("jwt.access_token_ttl") * time.Minute,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
		config.Server.Port = viper.GetInt("server.port")
	}
	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		config.Store.Backend = backend
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}

	return config, nil
}
