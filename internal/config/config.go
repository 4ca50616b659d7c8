package config

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                 string
	HTTPPort            int
	DBURL               string
	DBUser              string
	DBPassword          string
	UseFileSystemAssets bool
	UseSecureCookie     bool
	CookieEncryptionKey string
	CookieSigningKey    string
	OTLPEndpoint        string
}

func Load() Config {
	return Config{
		Env:                 getEnv("APP_ENV", "dev"),
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DBURL:               getEnv("DB_URL", "postgres://127.0.0.1:5432/accounthub?sslmode=disable"),
		DBUser:              getEnv("DB_USER", "accounthub"),
		DBPassword:          getEnv("DB_PASSWORD", "accounthub"),
		UseFileSystemAssets: getEnvBool("USE_FILESYSTEM_ASSETS", false),
		UseSecureCookie:     getEnvBool("USE_SECURE_COOKIE", true),
		CookieEncryptionKey: getEnv("COOKIE_ENCRYPTION_KEY", ""),
		CookieSigningKey:    getEnv("COOKIE_SIGNING_KEY", ""),
		OTLPEndpoint:        getEnv("OTLP_ENDPOINT", ""),
	}
}

var secretsPattern = regexp.MustCompile(`(?i)password|secret|key`)

// FormatForLogging renders every field sorted by name. Fields whose name looks
// like a secret are truncated to their first two characters plus a fixed mask,
// so credentials never reach log output in full.
func (c Config) FormatForLogging() string {
	v := reflect.ValueOf(c)
	t := v.Type()

	names := make([]string, 0, t.NumField())
	values := make(map[string]string, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Name
		val := fmt.Sprintf("%v", v.Field(i).Interface())

		if secretsPattern.MatchString(name) {
			if len(val) > 2 {
				val = val[:2]
			}
			val += "*****"
		}

		names = append(names, name)
		values[name] = val
	}

	sort.Strings(names)

	lines := make([]string, 0, len(names))

	for _, name := range names {
		lines = append(lines, name+" = "+values[name])
	}

	return strings.Join(lines, "\n")
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fallback
		}

		return b
	}
	return fallback
}
