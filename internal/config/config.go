package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8081"`

	DataDir        string `env:"DATA_DIR" envDefault:"./data"`
	EmbeddingsFile string `env:"EMBEDDINGS_FILE" envDefault:"topic_embeddings.json"`

	LLMModel string `env:"LLM_MODEL" envDefault:"gpt-4"`
	TagModel string `env:"TAG_MODEL" envDefault:"gpt-3.5-turbo"`

	EmbeddingProvider string `env:"EMBEDDING_PROVIDER" envDefault:"openai"`
	EmbeddingModel    string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	CohereModel       string `env:"COHERE_MODEL" envDefault:"embed-english-v3.0"`

	SimilarityThreshold float32 `env:"SIMILARITY_THRESHOLD" envDefault:"0.92"`
	TopicMaxAttempts    int     `env:"TOPIC_MAX_ATTEMPTS" envDefault:"5"`
	RateLimitRPS        int     `env:"RATE_LIMIT_RPS" envDefault:"1"`

	PostStatus string `env:"POST_STATUS" envDefault:"publish"`

	ScheduledSync bool          `env:"SCHEDULED_SYNC" envDefault:"true"`
	SyncInterval  time.Duration `env:"SYNC_INTERVAL" envDefault:"6h"`

	BackupDir           string        `env:"BACKUP_DIR" envDefault:"./data/backups"`
	BackupInterval      time.Duration `env:"BACKUP_INTERVAL" envDefault:"24h"`
	BackupEncryptionKey string        `env:"BACKUP_ENCRYPTION_KEY"`

	MailServer        string `env:"MAIL_SERVER"`
	MailPort          int    `env:"MAIL_PORT" envDefault:"587"`
	MailUsername      string `env:"MAIL_USERNAME"`
	MailPassword      string `env:"MAIL_PASSWORD"`
	MailDefaultSender string `env:"MAIL_DEFAULT_SENDER"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
