// Package secrets resolves API credentials from files or inline values.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential comes from. File wins over Value, so a
// mounted secret file cannot be shadowed by a stale inline setting.
type Source struct {
	// Name appears in error messages ("adzuna app key is not configured").
	Name string
	// Value is the inline credential from config, a flag or the environment.
	Value string
	// File points at a file holding the credential.
	File string
}

// Load resolves the credential described by src. The result is whitespace
// trimmed; a missing or blank credential is an error naming the source.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		value, err := readSecretFile(name, file)
		if err != nil {
			return "", err
		}
		return value, nil
	}

	value := strings.TrimSpace(src.Value)
	if value == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}
	return value, nil
}

func readSecretFile(name, file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}
	return value, nil
}
