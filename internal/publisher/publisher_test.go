package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsroom/internal/newsroom"
)

// resolverMap is an in-memory SecretResolver.
type resolverMap map[string]string

func (r resolverMap) Resolve(_ context.Context, name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", fmt.Errorf("secret %q not found", name)
	}
	return v, nil
}

func wpSecrets(apiURL string) resolverMap {
	creds, _ := json.Marshal(map[string]string{
		"api_url":      apiURL,
		"username":     "editor",
		"app_password": "abcd efgh",
	})
	return resolverMap{"wordpress-api-credentials": string(creds)}
}

var testPost = newsroom.Post{
	Title:      "Markets rally",
	Article:    "A full three paragraph article.",
	SocialCopy: "Markets are up! 📈",
	Link:       "https://example.com/markets",
}

func TestFromConfig_None(t *testing.T) {
	pub, err := FromConfig(context.Background(), Config{Target: TargetNone}, resolverMap{}, nil)
	require.NoError(t, err)
	assert.Nil(t, pub)

	pub, err = FromConfig(context.Background(), Config{}, resolverMap{}, nil)
	require.NoError(t, err)
	assert.Nil(t, pub)
}

func TestFromConfig_UnknownTarget(t *testing.T) {
	_, err := FromConfig(context.Background(), Config{Target: "carrier-pigeon"}, resolverMap{}, nil)
	assert.Error(t, err)
}

func TestWordPress_Publish(t *testing.T) {
	var gotReq struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Status  string `json:"status"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "expected basic auth")
		assert.Equal(t, "editor", user)
		assert.Equal(t, "abcd efgh", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1234, "link": "https://blog.example.com/?p=1234"}`)
	}))
	defer srv.Close()

	pub, err := FromConfig(context.Background(), Config{
		Target:               TargetWordPress,
		WordPressCredsSecret: "wordpress-api-credentials",
	}, wpSecrets(srv.URL), srv.Client())
	require.NoError(t, err)

	got := pub.Publish(context.Background(), testPost)

	assert.Equal(t, newsroom.PublishSuccess, got.Status)
	assert.Equal(t, "1234", got.PostID)
	assert.Equal(t, "https://blog.example.com/?p=1234", got.Link)

	assert.Equal(t, "Markets rally", gotReq.Title)
	assert.Equal(t, "publish", gotReq.Status)
	// The payload embeds the article, the canonical link, and the teaser.
	assert.Contains(t, gotReq.Content, testPost.Article)
	assert.Contains(t, gotReq.Content, testPost.Link)
	assert.Contains(t, gotReq.Content, testPost.SocialCopy)
}

func TestWordPress_PublishRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"code":"rest_cannot_create"}`)
	}))
	defer srv.Close()

	pub, err := FromConfig(context.Background(), Config{
		Target:               TargetWordPress,
		WordPressCredsSecret: "wordpress-api-credentials",
	}, wpSecrets(srv.URL), srv.Client())
	require.NoError(t, err)

	got := pub.Publish(context.Background(), testPost)

	assert.Equal(t, newsroom.PublishFailed, got.Status)
	assert.Contains(t, got.Error, "403")
	assert.Empty(t, got.PostID)
}

func TestWordPress_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	pub, err := FromConfig(context.Background(), Config{
		Target:               TargetWordPress,
		WordPressCredsSecret: "wordpress-api-credentials",
	}, wpSecrets(srv.URL), nil)
	require.NoError(t, err)

	got := pub.Publish(context.Background(), testPost)
	assert.Equal(t, newsroom.PublishFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestWordPress_IncompleteCredentials(t *testing.T) {
	_, err := FromConfig(context.Background(), Config{
		Target:               TargetWordPress,
		WordPressCredsSecret: "wordpress-api-credentials",
	}, resolverMap{"wordpress-api-credentials": `{"username": "editor"}`}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestSocial_Publish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page-42/feed", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Markets are up! 📈", r.PostForm.Get("message"))
		assert.Equal(t, testPost.Link, r.PostForm.Get("link"))
		assert.Equal(t, "token-abc", r.PostForm.Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "42_777"}`)
	}))
	defer srv.Close()

	pub, err := FromConfig(context.Background(), Config{
		Target:            TargetSocial,
		SocialBaseURL:     srv.URL,
		SocialPageID:      "page-42",
		SocialTokenSecret: "social-page-token",
	}, resolverMap{"social-page-token": "token-abc"}, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "social", pub.Name())

	got := pub.Publish(context.Background(), testPost)
	assert.Equal(t, newsroom.PublishSuccess, got.Status)
	assert.Equal(t, "42_777", got.PostID)
}

func TestSocial_FallsBackToTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, testPost.Title, r.PostForm.Get("message"))
		fmt.Fprint(w, `{"id": "42_778"}`)
	}))
	defer srv.Close()

	pub, err := FromConfig(context.Background(), Config{
		Target:            TargetSocial,
		SocialBaseURL:     srv.URL,
		SocialPageID:      "page-42",
		SocialTokenSecret: "social-page-token",
	}, resolverMap{"social-page-token": "token-abc"}, srv.Client())
	require.NoError(t, err)

	post := testPost
	post.SocialCopy = ""
	got := pub.Publish(context.Background(), post)
	assert.Equal(t, newsroom.PublishSuccess, got.Status)
}

func TestSocial_MissingPageIDIsFatal(t *testing.T) {
	_, err := FromConfig(context.Background(), Config{
		Target:            TargetSocial,
		SocialTokenSecret: "social-page-token",
	}, resolverMap{"social-page-token": "token-abc"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "page id")
}

func TestSocial_MissingToken(t *testing.T) {
	_, err := FromConfig(context.Background(), Config{
		Target:            TargetSocial,
		SocialPageID:      "page-42",
		SocialTokenSecret: "social-page-token",
	}, resolverMap{}, nil)

	assert.Error(t, err)
}
