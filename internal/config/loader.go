package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding a config file path.
const EnvConfigPath = "CLIENTLINE_CONFIG"

// Load builds the configuration. path is an optional YAML file; when empty
// the CLIENTLINE_CONFIG environment variable is consulted. A named file that
// does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := applyDefaults(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(reflect.ValueOf(cfg).Elem()); err != nil {
		panic(fmt.Sprintf("invalid default tag: %v", err))
	}
	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func applyDefaults(v reflect.Value) error {
	return walk(v, func(field reflect.StructField, fv reflect.Value) error {
		def, ok := field.Tag.Lookup("default")
		if !ok {
			return nil
		}
		return setField(fv, def)
	})
}

func applyEnv(v reflect.Value) error {
	return walk(v, func(field reflect.StructField, fv reflect.Value) error {
		name := field.Tag.Get("env")
		if name == "" {
			return nil
		}
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			return nil
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
		return nil
	})
}

// walk calls fn for every settable leaf field, recursing into nested structs.
func walk(v reflect.Value, fn func(reflect.StructField, reflect.Value) error) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			if err := walk(fieldVal, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(field, fieldVal); err != nil {
			return err
		}
	}
	return nil
}

// setField sets a field value from a string representation.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return errors.New("only string slices are supported")
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}
