package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/identify", r.URL.Path)

		file, _, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		imageData, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, []byte("image-bytes"), imageData)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name":         "Tacos",
			"region":       "Mexico",
			"ingredients":  []string{"corn"},
			"instructions": []string{"cook"},
			"funFacts":     []string{"old"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Identify(context.Background(), []byte("image-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "Tacos", result.Name)
	assert.Equal(t, "Mexico", result.Region)
	assert.Equal(t, []string{"corn"}, result.Ingredients)
}

func TestIdentify_NormalizesSparseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Tacos"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Identify(context.Background(), []byte("image-bytes"))

	require.NoError(t, err)
	assert.NotNil(t, result.Ingredients)
	assert.NotNil(t, result.Instructions)
	assert.NotNil(t, result.FunFacts)
	assert.NotEmpty(t, result.Region)
}

func TestIdentify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"Failed to process AI response"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Identify(context.Background(), []byte("image-bytes"))

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to process AI response")
}

func TestIdentify_ContextCancellationAborts(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := New(srv.URL)
	result, err := c.Identify(ctx, []byte("image-bytes"))

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
