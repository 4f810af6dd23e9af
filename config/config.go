package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

type (
	APP struct {
		Name          string
		Host          string
		Port          string
		Env           string
		PublicURL     string
		JWTSecret     string
		SessionCookie string
		SessionTTL    time.Duration
		TokenTTL      time.Duration
		DownloadTTL   time.Duration
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Storage struct {
		Driver         string
		UploadDir      string
		MaxUploadBytes int64
	}
	S3 struct {
		Endpoint        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		UseSSL          bool
	}
	Mail struct {
		Host     string
		Port     int
		User     string
		Password string
		Sender   string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		S3      S3
		Mail    Mail
		MQ      MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil && v > 0 {
		return v
	}
	return def
}

func Load() Config {
	app := APP{
		Name:          getEnv("SERVICE_NAME", "fileexchange"),
		Host:          getEnv("SERVICE_HOST", ""),
		Port:          getEnv("SERVICE_PORT", "8080"),
		Env:           getEnv("SERVICE_ENV", ""),
		PublicURL:     strings.TrimRight(getEnv("SERVICE_PUBLIC_URL", "http://localhost:8080"), "/"),
		JWTSecret:     getEnv("SERVICE_JWT_SECRET", ""),
		SessionCookie: getEnv("SERVICE_SESSION_COOKIE", "session"),
		SessionTTL:    getEnvDuration("SERVICE_SESSION_TTL", time.Hour),
		TokenTTL:      getEnvDuration("SERVICE_TOKEN_TTL", time.Hour),
		DownloadTTL:   getEnvDuration("SERVICE_DOWNLOAD_TTL", 24*time.Hour),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	storage := Storage{
		Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", StorageDisk)),
		UploadDir:      getEnv("STORAGE_UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvInt("STORAGE_MAX_UPLOAD_BYTES", 16<<20)),
	}
	s3 := S3{
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", "uploads"),
		UseSSL:          getEnvBool("S3_USE_SSL", true),
	}
	mail := Mail{
		Host:     getEnv("MAIL_SERVER", ""),
		Port:     getEnvInt("MAIL_PORT", 587),
		User:     getEnv("MAIL_USERNAME", ""),
		Password: getEnv("MAIL_PASSWORD", ""),
		Sender:   getEnv("MAIL_DEFAULT_SENDER", "noreply@example.com"),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "fileexchange.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "fileexchange.events.log"),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		S3:      s3,
		Mail:    mail,
		MQ:      mq,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.App.JWTSecret == "" {
		errs = append(errs, errors.New("SERVICE_JWT_SECRET is required"))
	}
	switch c.Storage.Driver {
	case StorageDisk:
		if c.Storage.UploadDir == "" {
			errs = append(errs, errors.New("STORAGE_UPLOAD_DIR is required for disk storage"))
		}
	case StorageS3:
		if c.S3.Endpoint == "" || c.S3.BucketUploads == "" {
			errs = append(errs, errors.New("S3_ENDPOINT and S3_BUCKET_UPLOADS are required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("STORAGE_MAX_UPLOAD_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

// MQEnabled reports whether domain events should be published.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

// MailEnabled reports whether verification emails can be sent.
func (c Config) MailEnabled() bool { return c.Mail.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
