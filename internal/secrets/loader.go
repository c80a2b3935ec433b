// Package secrets resolves credentials given inline or through files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential comes from.
type Source struct {
	// Name is used in error messages, e.g. "mail password".
	Name string
	// Value is an inline value from configuration or the environment.
	Value string
	// File points to a file holding the value. It takes precedence over Value.
	File string
	// Optional sources resolve to an empty string when neither Value nor File
	// is set. The operator may still fill them in interactively.
	Optional bool
}

// Load returns the trimmed credential.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file == "" && strings.TrimSpace(src.Value) == "" && src.Optional {
		return "", nil
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if secret := strings.TrimSpace(string(data)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}
	return secret, nil
}

// LoadAll resolves every source, stopping at the first failure.
func LoadAll(srcs ...Source) ([]string, error) {
	values := make([]string, 0, len(srcs))
	for _, src := range srcs {
		v, err := Load(src)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
