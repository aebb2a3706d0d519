package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                      string
	Port                        string
	DatabaseURL                 string
	JWTSecret                   string
	AllowOrigins                []string
	LogstashTCPAddr             string
	MinIOEndpoint               string
	MinIOAccessKey              string
	MinIOSecretKey              string
	MinIOUseSSL                 bool
	MinIOBucketImports          string
	MinIOPublicURL              string
	RedisAddr                   string
	RedisPassword               string
	RedisDB                     int
	CityCacheTTL                time.Duration
	PlaceImportMaxBytes         int64
	PlaceImportPreviewLimit     int
	DuplicateRadiusMeters       float64
	EnablePlaceImports          bool
	SubmissionSelfReviewAllowed bool
	MetricsEnabled              bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	return FromEnv(os.Getenv)
}

// LoadTool is Load for command line tools. Required keys may be empty; each
// command checks the ones it uses.
func LoadTool() Config {
	_ = godotenv.Load()
	return fromEnv(env{lookup: os.Getenv, lenient: true})
}

// FromEnv builds a Config from a lookup function. Required keys panic when
// missing so a misconfigured deploy fails at boot.
func FromEnv(lookup func(string) string) Config {
	return fromEnv(env{lookup: lookup})
}

func fromEnv(e env) Config {

	return Config{
		AppEnv:                      e.get("APP_ENV", "production"),
		Port:                        e.get("PORT", "8080"),
		DatabaseURL:                 e.must("DATABASE_URL"),
		JWTSecret:                   e.must("JWT_SECRET"),
		AllowOrigins:                splitAndTrim(e.get("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:             e.get("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:               e.get("MINIO_ENDPOINT", ""),
		MinIOAccessKey:              e.get("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:              e.get("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                 e.get("MINIO_USE_SSL", "false") == "true",
		MinIOBucketImports:          e.get("MINIO_BUCKET_IMPORTS", "dogatlas-imports"),
		MinIOPublicURL:              e.get("MINIO_PUBLIC_URL", ""),
		RedisAddr:                   e.get("REDIS_ADDR", ""),
		RedisPassword:               e.get("REDIS_PASSWORD", ""),
		RedisDB:                     e.intValue("REDIS_DB", 0),
		CityCacheTTL:                e.duration("CITY_CACHE_TTL", 5*time.Minute),
		PlaceImportMaxBytes:         e.int64Value("PLACE_IMPORT_MAX_BYTES", 8*1024*1024),
		PlaceImportPreviewLimit:     e.intValue("PLACE_IMPORT_PREVIEW_LIMIT", 100),
		DuplicateRadiusMeters:       e.floatValue("DUPLICATE_RADIUS_METERS", 50),
		EnablePlaceImports:          e.get("ENABLE_PLACE_IMPORTS", "true") == "true",
		SubmissionSelfReviewAllowed: e.get("SUBMISSION_SELF_REVIEW_ALLOWED", "false") == "true",
		MetricsEnabled:              e.get("METRICS_ENABLED", "true") == "true",
	}
}

func (c Config) ArchiveEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOBucketImports != ""
}

type env struct {
	lookup  func(string) string
	lenient bool
}

func (e env) get(k, d string) string {
	if v := strings.TrimSpace(e.lookup(k)); v != "" {
		return v
	}
	return d
}

func (e env) must(k string) string {
	v := strings.TrimSpace(e.lookup(k))
	if v == "" && !e.lenient {
		panic("missing env: " + k)
	}
	return v
}

// Numeric keys fall back to the default on parse errors and non-positive
// values, except REDIS_DB where 0 is the normal choice.
func (e env) intValue(k string, d int) int {
	v, err := strconv.Atoi(e.get(k, ""))
	if err != nil || v < 0 || (v == 0 && d > 0) {
		return d
	}
	return v
}

func (e env) int64Value(k string, d int64) int64 {
	v, err := strconv.ParseInt(e.get(k, ""), 10, 64)
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func (e env) floatValue(k string, d float64) float64 {
	v, err := strconv.ParseFloat(e.get(k, ""), 64)
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func (e env) duration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(e.get(k, ""))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
