package envutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFileType is returned when the file extension is not recognized.
var ErrUnknownFileType = errors.New("env file doesn't have a known file suffix")

// LoadEnvFile reads variables from a file, picking the syntax from its extension:
//   - .env: KEY=VALUE lines, comments, quoting and export statements (godotenv)
//   - .json: {"env": {"KEY": "VALUE"}}
//   - .yml/.yaml: a top-level "env" mapping
func LoadEnvFile(path string) (map[string]string, error) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".env"):
		return godotenv.Read(path)
	case strings.HasSuffix(name, ".json"):
		return loadStructured(path, json.Unmarshal)
	case strings.HasSuffix(name, ".yml"), strings.HasSuffix(name, ".yaml"):
		return loadStructured(path, yaml.Unmarshal)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, filepath.Base(path))
	}
}

// WithEnvFile returns a context in which every variable from the file at path
// overrides the process environment.
func WithEnvFile(ctx context.Context, path string) (context.Context, error) {
	vars, err := LoadEnvFile(path)
	if err != nil {
		return ctx, err
	}

	return WithEnvOverrides(ctx, vars), nil
}

type envFile struct {
	Env map[string]string `json:"env" yaml:"env"`
}

func loadStructured(path string, unmarshal func([]byte, any) error) (map[string]string, error) {
	bts, err := os.ReadFile(path) // #nosec G304 -- path is the intended file to load
	if err != nil {
		return nil, err
	}

	var out envFile
	if err := unmarshal(bts, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return out.Env, nil
}
