package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shoplist/internal/paging"
)

type shop struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/shops/", r.URL.Path)
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("page_size"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))

		next := "http://" + r.Host + "/api/shops/?page=4"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(paging.Envelope[shop]{
			Count:   61,
			Next:    &next,
			Results: []shop{{ID: 1, Name: "Corner"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", StaticCredentials("test-token"), WithHTTPClient(server.Client()))

	result, err := FetchPage[shop](context.Background(), client, "/api/shops/", 3, 20, NoCache)
	require.NoError(t, err)
	require.True(t, result.IsSuccess(), "unexpected result: %v", result)

	env := result.Value()
	assert.Equal(t, 61, env.Count)
	require.Len(t, env.Results, 1)
	assert.Equal(t, "Corner", env.Results[0].Name)

	key := env.ToCursor("/api/shops/")
	require.NotNil(t, key.NextPage)
	assert.Equal(t, 4, *key.NextPage)
}

func TestClient_Fetch_OnlyIfCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Cache-Control"), "only-if-cached")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticCredentials("t"), WithHTTPClient(server.Client()))

	result, err := FetchPage[shop](context.Background(), client, "/api/shops/", 2, 0, OnlyIfCached)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Empty(t, result.Value().Results)
}

func TestClient_Fetch_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticCredentials("bad"), WithHTTPClient(server.Client()))

	result, err := FetchPage[shop](context.Background(), client, "/api/shops/", 1, 10, NoCache)
	require.NoError(t, err)

	var authErr *AuthError
	require.ErrorAs(t, result.Err(), &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestClient_Fetch_ServerErrorStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticCredentials("t"), WithHTTPClient(server.Client()))

	result, err := FetchPage[shop](context.Background(), client, "/api/shops/", 1, 10, NoCache)
	require.NoError(t, err)

	var apiErr *APIError
	require.ErrorAs(t, result.Err(), &apiErr)
	assert.Equal(t, "Service Unavailable", apiErr.Detail)
	assert.True(t, Retryable(result.Err()))
}

func TestClient_MissingCredentials(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", StaticCredentials(""))

	result, err := FetchPage[shop](context.Background(), client, "/api/shops/", 1, 10, NoCache)
	require.NoError(t, err)
	assert.ErrorIs(t, result.Err(), ErrNoCredentials)
}

func TestClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticCredentials("t"), WithHTTPClient(server.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchPage[shop](ctx, client, "/api/shops/", 1, 10, NoCache)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["quantity"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"name":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticCredentials("t"), WithHTTPClient(server.Client()))

	created, err := ExecuteErr[shop](context.Background(), func(ctx context.Context) (*Response, error) {
		return client.Send(ctx, http.MethodPost, "/api/shopping-list/", map[string]any{"quantity": 2})
	})
	require.NoError(t, err)
	assert.Equal(t, uint(5), created.ID)
}

type settingsStub map[string]string

func (s settingsStub) GetValue(key string) (string, error) { return s[key], nil }

func TestSettingsCredentials(t *testing.T) {
	stored := NewSettingsCredentials(settingsStub{"api_token": "stored"}, "fallback")
	token, err := stored.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", token)

	fallback := NewSettingsCredentials(settingsStub{}, "fallback")
	token, err = fallback.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback", token)

	none := NewSettingsCredentials(settingsStub{}, "")
	_, err = none.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}
