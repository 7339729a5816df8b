package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает общую конфигурацию утилит.
type AppConfig struct {
	AppEnv     string `envconfig:"APP_ENV" default:"dev"`
	ScratchDir string `envconfig:"SCRATCH_DIR" default:"/tmp"`
	SentryDSN  string `envconfig:"SENTRY_DSN"`

	S3 struct {
		Endpoint string `envconfig:"AWS_S3_ENDPOINT"`
	} `envconfig:""`

	Schedule struct {
		Cron        string `envconfig:"COMPACTION_CRON" default:"0 4 * * *"`
		MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
	} `envconfig:""`

	Telegram struct {
		APIHost string `envconfig:"TG_API_HOST" default:"https://api.telegram.org"`
	} `envconfig:""`
}

// BucketConfig — обязательные бакеты компакции. Читается на каждый запуск,
// чтобы отсутствие переменных стало ошибкой запуска, а не падением процесса.
type BucketConfig struct {
	Raw      string `envconfig:"AWS_S3_BUCKET" required:"true"`
	Enriched string `envconfig:"AWS_S3_ENRICHED" required:"true"`
}

// InLambda сообщает, запущен ли процесс в среде AWS Lambda.
func InLambda() bool {
	return os.Getenv("AWS_LAMBDA_RUNTIME_API") != ""
}

// Load загружает конфиг из окружения. Вне Lambda сначала подхватывается .env, если он есть.
func Load() AppConfig {
	if !InLambda() {
		_ = godotenv.Load()
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// LoadBuckets читает имена бакетов из окружения.
func LoadBuckets() (BucketConfig, error) {
	var cfg BucketConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return BucketConfig{}, err
	}
	return cfg, nil
}
