package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	APP struct {
		Name           string
		Host           string
		Port           string
		Env            string
		LogLevel       string
		JWTSecret      string
		TokenTTL       time.Duration
		CORSOrigins    []string
		MaxUploadBytes int64
	}
	DB struct {
		User        string
		Password    string
		Name        string
		Host        string
		Port        string
		AutoMigrate bool
	}
	S3 struct {
		Endpoint        string
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		UseSSL          bool
		PresignTTL      time.Duration
	}
	MQ struct {
		User           string
		Password       string
		Vhost          string
		Host           string
		AmqpPort       string
		Exchange       string
		ExchangeType   string
		QueueName      string
		CleanupEnabled bool
	}
	Redis struct {
		Addr        string
		Password    string
		DB          int
		LoginLimit  int
		LoginWindow time.Duration
	}

	Config struct {
		App   APP
		DB    DB
		S3    S3
		MQ    MQ
		Redis Redis
	}
)

var defaults = map[string]any{
	"service.name":             "bookmark-app",
	"service.port":             "3000",
	"service.env":              "development",
	"service.log_level":        "info",
	"service.token_ttl":        "60m",
	"service.cors_origins":     "http://localhost:3000,http://localhost:3001",
	"service.max_upload_bytes": int64(10 << 20),
	"postgres.port":            "5432",
	"s3.region":                "us-east-1",
	"s3.bucket_uploads":        "bookmarks",
	"s3.presign_ttl":           "1h",
	"rabbitmq.vhost":           "/",
	"rabbitmq.amqp_port":       "5672",
	"rabbitmq.exchange":        "bookmarks",
	"rabbitmq.exchange_type":   "direct",
	"rabbitmq.queue_name":      "bookmark-events",
	"redis.login_limit":        10,
	"redis.login_window":       "15m",
}

// Load reads an optional .env file into the process environment, then
// resolves every key from the environment (key "a.b" <-> env "A_B") or an
// optional bookmark-api.yaml in the working directory.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bookmark-api")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	tokenTTL, err := parseDuration(v, "service.token_ttl")
	if err != nil {
		return Config{}, err
	}
	presignTTL, err := parseDuration(v, "s3.presign_ttl")
	if err != nil {
		return Config{}, err
	}
	loginWindow, err := parseDuration(v, "redis.login_window")
	if err != nil {
		return Config{}, err
	}

	app := APP{
		Name:           v.GetString("service.name"),
		Host:           v.GetString("service.host"),
		Port:           v.GetString("service.port"),
		Env:            v.GetString("service.env"),
		LogLevel:       v.GetString("service.log_level"),
		JWTSecret:      v.GetString("service.jwt_secret"),
		TokenTTL:       tokenTTL,
		CORSOrigins:    splitList(v.GetString("service.cors_origins")),
		MaxUploadBytes: v.GetInt64("service.max_upload_bytes"),
	}
	db := DB{
		User:        v.GetString("postgres.user"),
		Password:    v.GetString("postgres.password"),
		Name:        v.GetString("postgres.db"),
		Host:        v.GetString("postgres.host"),
		Port:        v.GetString("postgres.port"),
		AutoMigrate: v.GetBool("postgres.auto_migrate"),
	}
	s3 := S3{
		Endpoint:        v.GetString("s3.endpoint"),
		Region:          v.GetString("s3.region"),
		AccessKeyID:     v.GetString("s3.access_key_id"),
		SecretAccessKey: v.GetString("s3.secret_access_key"),
		BucketUploads:   v.GetString("s3.bucket_uploads"),
		UseSSL:          v.GetBool("s3.use_ssl"),
		PresignTTL:      presignTTL,
	}
	mq := MQ{
		User:           v.GetString("rabbitmq.user"),
		Password:       v.GetString("rabbitmq.password"),
		Vhost:          v.GetString("rabbitmq.vhost"),
		Host:           v.GetString("rabbitmq.host"),
		AmqpPort:       v.GetString("rabbitmq.amqp_port"),
		Exchange:       v.GetString("rabbitmq.exchange"),
		ExchangeType:   v.GetString("rabbitmq.exchange_type"),
		QueueName:      v.GetString("rabbitmq.queue_name"),
		CleanupEnabled: v.GetBool("file.cleanup_enabled"),
	}
	rds := Redis{
		Addr:        v.GetString("redis.addr"),
		Password:    v.GetString("redis.password"),
		DB:          v.GetInt("redis.db"),
		LoginLimit:  v.GetInt("redis.login_limit"),
		LoginWindow: loginWindow,
	}

	if app.JWTSecret == "" {
		return Config{}, errors.New("SERVICE_JWT_SECRET is required")
	}
	if app.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("SERVICE_MAX_UPLOAD_BYTES must be > 0, got %d", app.MaxUploadBytes)
	}

	return Config{
		App:   app,
		DB:    db,
		S3:    s3,
		MQ:    mq,
		Redis: rds,
	}, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToUpper(strings.ReplaceAll(key, ".", "_")), err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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

// MQEnabled reports whether a broker is configured; without one events are discarded.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

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
