package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)

// Properties holds application properties read from a YAML document with ${ENV:default} placeholders resolved.
type Properties struct {
	v *viper.Viper
}

// LoadDotEnv loads the given .env files into the process environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads properties from a YAML file.
func Load(filepath string) (*Properties, error) {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fail to read properties: %w", err)
	}
	return newProperties(v), nil
}

// LoadBytes reads properties from an in-memory YAML document.
func LoadBytes(data []byte) (*Properties, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("fail to read properties: %w", err)
	}
	return newProperties(v), nil
}

func newProperties(v *viper.Viper) *Properties {
	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)
	for key, value := range resolved {
		v.Set(key, value)
	}
	return &Properties{v: v}
}

// parsePropertiesMap reads recursively the YAML tree and resolves placeholders in string leaves
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		case []any:
			items := make([]any, len(v))
			for i, item := range v {
				if s, ok := item.(string); ok {
					items[i] = resolveEnvVariable(s)
					continue
				}
				items[i] = item
			}
			result[fullKey] = items
		default:
			result[fullKey] = v
		}
	}
}

// resolveEnvVariable replaces every ${NAME:default} occurrence with the environment value or its default
func resolveEnvVariable(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(placeholder string) string {
		matches := envPattern.FindStringSubmatch(placeholder)
		if envValue, exists := os.LookupEnv(matches[1]); exists {
			return envValue
		}
		return matches[2]
	})
}

func (p *Properties) IsSet(key string) bool {
	return p.v.IsSet(key)
}

func (p *Properties) Get(key string) any {
	return p.v.Get(key)
}

func (p *Properties) GetString(key string) string {
	return p.v.GetString(key)
}

func (p *Properties) GetBool(key string) bool {
	return p.v.GetBool(key)
}

func (p *Properties) GetDuration(key string) time.Duration {
	return p.v.GetDuration(key)
}

// GetSeconds reads an integer number of seconds as a duration.
func (p *Properties) GetSeconds(key string) time.Duration {
	return time.Duration(p.v.GetInt64(key)) * time.Second
}

func (p *Properties) GetInt(key string) int {
	return p.v.GetInt(key)
}

func (p *Properties) GetInt32(key string) int32 {
	return p.v.GetInt32(key)
}

func (p *Properties) GetInt64(key string) int64 {
	return p.v.GetInt64(key)
}

func (p *Properties) GetFloat64(key string) float64 {
	return p.v.GetFloat64(key)
}

// GetStringSlice reads a YAML list or a comma separated string.
func (p *Properties) GetStringSlice(key string) []string {
	if s, ok := p.v.Get(key).(string); ok {
		return splitList(s)
	}
	return p.v.GetStringSlice(key)
}
