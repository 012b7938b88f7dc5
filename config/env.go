package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultMongoURI    = "mongodb://localhost:27017"
	defaultMongoDB     = "mobileMart"
	defaultRedisAddr   = "localhost:6379"
	defaultJWTSecret   = "change-me-in-production"
	defaultTokenTTL    = time.Hour
	defaultAppPort     = "5000"
	defaultAppEnv      = "local"
	defaultStoreOpTime = 10 * time.Second
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":         defaultMongoURI,
		"MONGO_DB":          defaultMongoDB,
		"REDIS_ADDR":        defaultRedisAddr,
		"REDIS_PASSWORD":    "",
		"JWT_SECRET":        defaultJWTSecret,
		"TOKEN_TTL":         "",
		"ROLE_CACHE_TTL":    "",
		"STRIPE_SECRET_KEY": "",
		"APP_PORT":          defaultAppPort,
		"APP_ENV":           defaultAppEnv,
		"LOG_TO_MONGO":      "",
		"STORE_TIMEOUT":     "",
	}
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDB)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

// TokenTTL is the lifetime of login-issued tokens. Defaults to one hour.
func TokenTTL() time.Duration {
	_ = Load()
	return duration("TOKEN_TTL", defaultTokenTTL)
}

// RoleCacheTTL controls the optional redis cache in front of role
// resolution. Zero (the default) disables caching entirely so role
// changes always take effect on the next guarded call.
func RoleCacheTTL() time.Duration {
	_ = Load()
	return duration("ROLE_CACHE_TTL", 0)
}

// StoreTimeout bounds every individual document-store call.
func StoreTimeout() time.Duration {
	_ = Load()
	return duration("STORE_TIMEOUT", defaultStoreOpTime)
}

func StripeSecretKey() string {
	_ = Load()
	return get("STRIPE_SECRET_KEY", "")
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// LogToMongo enables the async mongo log sink alongside stdout.
func LogToMongo() bool {
	_ = Load()
	return get("LOG_TO_MONGO", "false") == "true"
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	// Real environment variables win over files.
	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	raw := get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
