package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend selectors. The throttle/notifier backend is fixed at startup by
// configuration, never probed at runtime.
const (
	ThrottleRedis  = "redis"
	ThrottleMemory = "memory"

	NotifierQueue = "queue"
	NotifierLog   = "log"
)

type Config struct {
	Port            string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ThrottleBackend string
	NotifierBackend string
	BcryptCost      int
	VersionIOS      string
	VersionAndroid  string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		ThrottleBackend: getEnv("THROTTLE_BACKEND", ThrottleRedis),
		NotifierBackend: getEnv("NOTIFIER_BACKEND", NotifierQueue),
		BcryptCost:      getEnvInt("BCRYPT_COST", 11),
		VersionIOS:      getEnv("VERSION_IOS", "0.0.1"),
		VersionAndroid:  getEnv("VERSION_ANDROID", "0.0.1"),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
