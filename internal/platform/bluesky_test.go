package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlueskyServer(t *testing.T, logins *int32) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(logins, 1)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "app-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"AuthenticationRequired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessJwt":"jwt","did":"did:plc:abc","handle":"` + body["identifier"] + `"}`))
	})
	mux.HandleFunc("POST /xrpc/com.atproto.repo.createRecord", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"uri":"at://did:plc:abc/app.bsky.feed.post/3k2","cid":"bafy"}`))
	})
	mux.HandleFunc("POST /xrpc/com.atproto.repo.deleteRecord", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "3k2", body["rkey"])
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /xrpc/app.bsky.feed.getPostThread", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"thread":{"post":{"likeCount":7,"repostCount":1,"replyCount":2}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBluesky_PublishReusesSession(t *testing.T) {
	var logins int32
	srv := newBlueskyServer(t, &logins)
	adapter, err := NewBlueskyFactory(srv.URL, nil)(models.Credentials{"handle": "me.bsky.social", "app_password": "app-pass"})
	require.NoError(t, err)

	res, err := adapter.Publish(context.Background(), "hello sky", []string{"https://example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "at://did:plc:abc/app.bsky.feed.post/3k2", res.PlatformPostID)
	assert.Equal(t, "https://bsky.app/profile/did:plc:abc/post/3k2", res.PlatformPostURL)

	deleted, err := adapter.Delete(context.Background(), res.PlatformPostID)
	require.NoError(t, err)
	assert.True(t, deleted)

	eng, err := adapter.FetchEngagement(context.Background(), res.PlatformPostID)
	require.NoError(t, err)
	assert.Equal(t, 7, eng.Likes)
	assert.Equal(t, int32(1), atomic.LoadInt32(&logins))
}

func TestBluesky_LoginFailureFailsPublish(t *testing.T) {
	var logins int32
	srv := newBlueskyServer(t, &logins)
	adapter, err := NewBlueskyFactory(srv.URL, nil)(models.Credentials{"handle": "me.bsky.social", "app_password": "wrong"})
	require.NoError(t, err)

	_, err = adapter.Publish(context.Background(), "hello", nil)
	assert.ErrorContains(t, err, "login failed")

	ok, err := adapter.VerifyCredentials(context.Background(), models.Credentials{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = adapter.VerifyCredentials(context.Background(), models.Credentials{"app_password": "app-pass"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBluesky_MissingCredentials(t *testing.T) {
	_, err := NewBlueskyFactory("", nil)(models.Credentials{"handle": "me"})
	assert.Error(t, err)
}

func TestSplitPostURI(t *testing.T) {
	did, rkey, err := splitPostURI("at://did:plc:xyz/app.bsky.feed.post/abc")
	require.NoError(t, err)
	assert.Equal(t, "did:plc:xyz", did)
	assert.Equal(t, "abc", rkey)

	_, _, err = splitPostURI("https://bsky.app/x")
	assert.Error(t, err)
}
