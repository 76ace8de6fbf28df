package routehandlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/butchersbasket/api/api"
	"github.com/butchersbasket/api/auth"
	"github.com/butchersbasket/api/config"
	"github.com/butchersbasket/api/models"
	rh "github.com/butchersbasket/api/route-handlers"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server    *httptest.Server
	users     *memUserStore
	products  *memCollection
	flashSale *memCollection
	issuer    *auth.TokenIssuer
}

// newTestEnv wires the real router and handlers over in-memory stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Port:           "0",
		TokenTTL:       time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
		RequestTimeout: 5 * time.Second,
	}

	env := &testEnv{
		users:     newMemUserStore(),
		products:  newMemCollection(),
		flashSale: newMemCollection(),
		issuer:    auth.NewTokenIssuer("test-secret", cfg.TokenTTL),
	}

	router := api.SetupRoutes(
		cfg,
		rh.NewAuthHandler(env.users, env.issuer),
		rh.NewResourceHandler(models.Product, env.products),
		rh.NewResourceHandler(models.FlashSale, env.flashSale),
	)

	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return raw
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(readBody(t, resp), &out))
	return out
}

func validProductPayload() map[string]any {
	return map[string]any{
		"imageLink":   "https://img.example/rib-eye.jpg",
		"title":       "Rib Eye",
		"category":    "beef",
		"price":       24.5,
		"description": "Dry-aged rib eye steak",
		"rating":      4.7,
	}
}
