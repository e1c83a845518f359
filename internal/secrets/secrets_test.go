package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvResolver(t *testing.T) {
	t.Setenv("SECRET_WORDPRESS_API_CREDENTIALS", `{"api_url":"x"}`)

	got, err := EnvResolver{}.Resolve(context.Background(), "wordpress-api-credentials")
	require.NoError(t, err)
	assert.Equal(t, `{"api_url":"x"}`, got)
}

func TestEnvResolver_CustomPrefix(t *testing.T) {
	t.Setenv("CREDS_PAGE_TOKEN", "tok")

	got, err := EnvResolver{Prefix: "CREDS_"}.Resolve(context.Background(), "page.token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}

func TestEnvResolver_Missing(t *testing.T) {
	_, err := EnvResolver{}.Resolve(context.Background(), "definitely-not-set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_DEFINITELY_NOT_SET")
}

func TestFileResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"social-page-token": "tok-123"}`), 0o600))

	r, err := NewFileResolver(path)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background(), "social-page-token")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)

	_, err = r.Resolve(context.Background(), "other")
	assert.Error(t, err)
}

func TestFileResolver_BadFile(t *testing.T) {
	_, err := NewFileResolver(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = NewFileResolver(path)
	assert.Error(t, err)
}
