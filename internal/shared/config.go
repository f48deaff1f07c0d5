package shared

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	ObjectStoreDriver string // s3 | fs
	Bucket            string
	ObjectStoreRPS    int
	S3Region          string
	S3Endpoint        string
	S3AccessKey       string
	S3SecretKey       string
	S3PublicBaseURL   string
	S3UsePathStyle    bool
	FSRoot            string
	FSPublicBaseURL   string

	MaxUploadBytes int64
	RequestTimeout time.Duration

	SweepWorkers int
	SweepGrace   time.Duration
	SweepDryRun  bool
}

var defaults = map[string]any{
	"APP_ENV":                 "prod",
	"HTTP_ADDR":               ":8080",
	"METRICS_ADDR":            "",
	"MYSQL_DSN":               "root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4&loc=UTC",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"CACHE_TTL_SECONDS":       300,
	"OBJECT_STORE_DRIVER":     "fs",
	"OBJECT_STORE_BUCKET":     "hotel-media",
	"OBJECT_STORE_RPS":        0,
	"S3_REGION":               "us-east-1",
	"S3_ENDPOINT":             "",
	"S3_ACCESS_KEY":           "",
	"S3_SECRET_KEY":           "",
	"S3_PUBLIC_BASE_URL":      "",
	"S3_USE_PATH_STYLE":       false,
	"FS_ROOT":                 "data/objects",
	"FS_PUBLIC_BASE_URL":      "",
	"MAX_UPLOAD_BYTES":        10 << 20,
	"REQUEST_TIMEOUT_SECONDS": 15,
	"SWEEP_WORKERS":           4,
	"SWEEP_GRACE_SECONDS":     3600,
	"SWEEP_DRY_RUN":           false,
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return v
}

func seconds(v *viper.Viper, k string) time.Duration {
	return time.Duration(v.GetInt(k)) * time.Second
}

func fromViper(v *viper.Viper) Config {
	return Config{
		AppEnv:      v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		MetricsAddr: v.GetString("METRICS_ADDR"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),
		RedisPass: v.GetString("REDIS_PASSWORD"),
		CacheTTL:  seconds(v, "CACHE_TTL_SECONDS"),

		ObjectStoreDriver: v.GetString("OBJECT_STORE_DRIVER"),
		Bucket:            v.GetString("OBJECT_STORE_BUCKET"),
		ObjectStoreRPS:    v.GetInt("OBJECT_STORE_RPS"),
		S3Region:          v.GetString("S3_REGION"),
		S3Endpoint:        v.GetString("S3_ENDPOINT"),
		S3AccessKey:       v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:       v.GetString("S3_SECRET_KEY"),
		S3PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
		S3UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
		FSRoot:            v.GetString("FS_ROOT"),
		FSPublicBaseURL:   v.GetString("FS_PUBLIC_BASE_URL"),

		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		RequestTimeout: seconds(v, "REQUEST_TIMEOUT_SECONDS"),

		SweepWorkers: v.GetInt("SWEEP_WORKERS"),
		SweepGrace:   seconds(v, "SWEEP_GRACE_SECONDS"),
		SweepDryRun:  v.GetBool("SWEEP_DRY_RUN"),
	}
}

// Validate reports settings the binaries cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.ObjectStoreDriver {
	case "s3":
		if c.S3Region == "" {
			errs = append(errs, errors.New("S3_REGION is required for the s3 driver"))
		}
	case "fs":
		if c.FSRoot == "" {
			errs = append(errs, errors.New("FS_ROOT is required for the fs driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("OBJECT_STORE_DRIVER must be s3 or fs, got %q", c.ObjectStoreDriver))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("OBJECT_STORE_BUCKET is required"))
	}
	if c.MySQLDSN == "" {
		errs = append(errs, errors.New("MYSQL_DSN is required"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}
