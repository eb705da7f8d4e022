package configparser

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// ParseEnv fills cfg (a pointer to struct) from environment variables
// declared with `env` tags, falling back to `default` tag values.
// Nested structs are walked recursively.
func ParseEnv(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("configparser: expected pointer to struct, got %T", cfg)
	}
	return parseStruct(v.Elem())
}

func parseStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		sf := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) && sf.Tag.Get("env") == "" {
			if err := parseStruct(field); err != nil {
				return err
			}
			continue
		}

		envName := sf.Tag.Get("env")
		if envName == "" {
			continue
		}

		raw := os.Getenv(envName)
		if raw == "" {
			raw = sf.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		if err := setField(field, raw); err != nil {
			return fmt.Errorf("configparser: field %s (%s): %w", sf.Name, envName, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	// time.Duration before the generic int case
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}

	return nil
}
