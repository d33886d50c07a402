package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix namespaces overrides; HOSTELHUB_SESSION_SECRET wins over SESSION_SECRET.
const EnvPrefix = "HOSTELHUB_"

var durationType = reflect.TypeOf(time.Duration(0))

// lookupEnv checks the prefixed name first, then the bare one.
func lookupEnv(name string) (string, string, bool) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		return EnvPrefix + name, v, true
	}
	v, ok := os.LookupEnv(name)
	return name, v, ok
}

// applyEnvOverrides copies `env` tagged variables into cfg. Every malformed
// value is reported, not just the first.
func applyEnvOverrides(cfg *Config) error {
	return errors.Join(overrideStruct(reflect.ValueOf(cfg).Elem(), "")...)
}

func overrideStruct(v reflect.Value, section string) []error {
	var errs []error
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field, meta := v.Field(i), t.Field(i)
		path := yamlPath(section, meta)

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			errs = append(errs, overrideStruct(field, path)...)
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" || !field.CanSet() {
			continue
		}
		used, raw, ok := lookupEnv(name)
		if !ok {
			continue
		}
		if err := assign(field, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", used, path, err))
		}
	}
	return errs
}

func yamlPath(section string, f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	if section == "" {
		return name
	}
	return section + "." + name
}

// assign parses raw into the field's type.
func assign(field reflect.Value, raw string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("want a duration like 15m: %w", err)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("want true or false: %w", err)
		}
		field.SetBool(b)
	case field.CanInt():
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("want an integer: %w", err)
		}
		field.SetInt(n)
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		// comma separated, blanks dropped
		items := []string{}
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
