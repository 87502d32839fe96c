package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port           int      `json:"port" yaml:"port"`
		AllowedOrigins []string `json:"allowedOrigins" yaml:"allowedOrigins"`
		Timeouts       struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	Generation *GenerationConfig `json:"generation" yaml:"generation"`
}

// AuthConfig carries the signing material and token lifetimes. The secret is
// process-wide; there is no per-tenant key management.
type AuthConfig struct {
	SecretKey          string `json:"secretKey" yaml:"secretKey"`
	Algorithm          string `json:"algorithm" yaml:"algorithm"`
	AccessTokenMinutes int    `json:"accessTokenMinutes" yaml:"accessTokenMinutes"`
	RefreshTokenDays   int    `json:"refreshTokenDays" yaml:"refreshTokenDays"`
	CookieSecure       bool   `json:"cookieSecure" yaml:"cookieSecure"`
	BcryptCost         int    `json:"bcryptCost" yaml:"bcryptCost"`
}

// PostgresConfig drives the GORM connection. URL is a standard libpq DSN.
// ReplicaURLs, when set, are registered as read replicas via dbresolver.
type PostgresConfig struct {
	URL             string        `json:"url" yaml:"url"`
	ReplicaURLs     []string      `json:"replicaUrls" yaml:"replicaUrls"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
	Migrate         bool          `json:"migrate" yaml:"migrate"`
}

// RedisConfig configures the generation-result cache. Optional; the service
// runs without a cache when no URL is set.
type RedisConfig struct {
	URL      string        `json:"url" yaml:"url"`
	CacheTTL time.Duration `json:"cacheTtl" yaml:"cacheTtl"`
}

// GenerationConfig points at the external text and image generation services.
// When TextAPIKey is empty the chat stream falls back to a canned echo
// generator instead of calling upstream.
type GenerationConfig struct {
	TextBaseURL  string        `json:"textBaseUrl" yaml:"textBaseUrl"`
	TextAPIKey   string        `json:"textApiKey" yaml:"textApiKey"`
	TextModel    string        `json:"textModel" yaml:"textModel"`
	ImageBaseURL string        `json:"imageBaseUrl" yaml:"imageBaseUrl"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads <env>.yaml through koanf, then overlays environment
// variables so every value in the file can be overridden at deploy time.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to a config path, aligning each segment
			// with existing YAML keys. Example: AUTH_SECRETKEY -> auth.secretKey
			// (not auth.secretkey).
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Auth == nil || cfg.Auth.SecretKey == "" {
		return errors.New("auth.secretKey must be provided")
	}
	if cfg.Auth.Algorithm == "" {
		cfg.Auth.Algorithm = "HS256"
	}
	if cfg.Auth.AccessTokenMinutes <= 0 {
		cfg.Auth.AccessTokenMinutes = 30
	}
	if cfg.Auth.RefreshTokenDays <= 0 {
		cfg.Auth.RefreshTokenDays = 7
	}
	if cfg.Postgres == nil || cfg.Postgres.URL == "" {
		return errors.New("postgres.url must be provided")
	}
	if cfg.Generation == nil {
		cfg.Generation = &GenerationConfig{}
	}
	if cfg.Generation.Timeout <= 0 {
		cfg.Generation.Timeout = 5 * time.Minute
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
