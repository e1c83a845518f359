// Package secrets resolves named secrets at run start. Failure to resolve a
// required secret is fatal to the run, never to a single item.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// EnvResolver maps secret names onto environment variables: the name is
// upper-cased, dashes and dots become underscores, and the prefix is
// prepended. "wordpress-api-credentials" → SECRET_WORDPRESS_API_CREDENTIALS.
type EnvResolver struct {
	Prefix string
}

const defaultPrefix = "SECRET_"

var nameReplacer = strings.NewReplacer("-", "_", ".", "_")

func (r EnvResolver) Resolve(_ context.Context, name string) (string, error) {
	prefix := r.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	key := prefix + strings.ToUpper(nameReplacer.Replace(name))
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret %q not found (env %s unset)", name, key)
	}

	return value, nil
}

// FileResolver reads secrets from a single JSON object file of name→value,
// the shape a mounted secret volume provides.
type FileResolver struct {
	values map[string]string
}

func NewFileResolver(path string) (*FileResolver, error) {
	byts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading secrets file: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(byts, &values); err != nil {
		return nil, fmt.Errorf("error parsing secrets file: %w", err)
	}

	return &FileResolver{values: values}, nil
}

func (r *FileResolver) Resolve(_ context.Context, name string) (string, error) {
	value, ok := r.values[name]
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}

	return value, nil
}
