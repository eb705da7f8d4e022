package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a flat YAML file and loads its values into the
// environment. Section names become underscore-joined prefixes and
// ${VAR:-default} substitution is supported. Existing environment
// variables win over file values.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	prefixStack := []string{}
	previousIndent := 0

	for scanner.Scan() {
		line := scanner.Text()

		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}

		indent := 0
		for _, ch := range line {
			if ch != ' ' {
				break
			}
			indent++
		}

		if indent < previousIndent {
			levelsToPop := (previousIndent - indent) / 2
			for i := 0; i < levelsToPop && len(prefixStack) > 0; i++ {
				prefixStack = prefixStack[:len(prefixStack)-1]
			}
		}
		previousIndent = indent

		content := strings.TrimSpace(line)

		// Section header: "name:" with no value
		if strings.HasSuffix(content, ":") && !strings.Contains(content, ": ") {
			sectionName := strings.TrimSuffix(content, ":")
			prefixStack = append(prefixStack, sectionName)
			continue
		}

		parts := strings.SplitN(content, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if value == "" {
			continue
		}

		value = strings.Trim(value, `"'`)

		// ${VAR:-default} substitution
		if strings.HasPrefix(value, "${") && strings.Contains(value, ":-") && strings.HasSuffix(value, "}") {
			inner := value[2 : len(value)-1]
			subParts := strings.SplitN(inner, ":-", 2)
			if len(subParts) == 2 {
				envVarName := strings.TrimSpace(subParts[0])
				defaultValue := strings.TrimSpace(subParts[1])

				if envValue := os.Getenv(envVarName); envValue != "" {
					value = envValue
				} else {
					value = defaultValue
				}
			}
		}

		fullKey := strings.ToUpper(key)
		if len(prefixStack) > 0 {
			fullKey = strings.ToUpper(strings.Join(append(prefixStack, key), "_"))
		}

		if os.Getenv(fullKey) == "" {
			if err := os.Setenv(fullKey, value); err != nil {
				return fmt.Errorf("could not set env var %s: %w", fullKey, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	return nil
}

// LoadAndParseYaml loads the YAML file into the environment (when the
// file exists) and then fills cfg from `env`/`default` struct tags.
func LoadAndParseYaml(filepath string, cfg any) error {
	if filepath != "" {
		if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
			if !strings.Contains(err.Error(), "no such file") {
				return err
			}
		}
	}
	return ParseEnv(cfg)
}
