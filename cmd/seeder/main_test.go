package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/oficina/internal/db/dbtest"
	"github.com/ukydev/oficina/internal/router"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(router.New(dbtest.NewStore(), nil))
	t.Cleanup(server.Close)
	return server
}

func getList(t *testing.T, url string) []map[string]interface{} {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSeeder_Run(t *testing.T) {
	server := newAPI(t)

	sum, err := NewSeeder(server.URL, 42).Run(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, Summary{Shops: 3, Services: 4, Parts: 4, Clients: 5, Vehicles: 5, Orders: 5}, sum)

	assert.Len(t, getList(t, server.URL+"/clientes"), 5)
	assert.Len(t, getList(t, server.URL+"/oficinas"), 3)

	orders := getList(t, server.URL+"/ordens-servico")
	require.Len(t, orders, 5)
	for _, o := range orders {
		assert.Len(t, o["servicos"], 1)
		assert.Len(t, o["pecas"], 1)
		assert.Greater(t, o["valor_total"].(float64), 0.0)
	}
}

func TestSeeder_Deterministic(t *testing.T) {
	a := NewSeeder("", 7)
	b := NewSeeder("", 7)
	assert.Equal(t, a.randomVehicle("x", 1), b.randomVehicle("x", 1))
}

func TestSeeder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"erro interno do servidor"}`))
	}))
	defer server.Close()

	_, err := NewSeeder(server.URL, 1).Run(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSeeder_Unreachable(t *testing.T) {
	_, err := NewSeeder("http://127.0.0.1:1", 1).Run(context.Background(), 1)
	assert.Error(t, err)
}
