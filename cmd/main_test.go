package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/oficina/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             0,
		Env:              "development",
		HTTPReadTimeout:  2 * time.Second,
		HTTPWriteTimeout: 3 * time.Second,
		ShutdownTimeout:  time.Second,
		MongoURI:         "mongodb://bad:uri",
		MongoDB:          "oficina_test",
		MongoTimeout:     time.Second,
	}
}

func TestNewServer(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 3000
	srv := newServer(cfg, http.NotFoundHandler())
	assert.Equal(t, ":3000", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.ReadTimeout)
	assert.Equal(t, 3*time.Second, srv.WriteTimeout)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, newServer(cfg, http.NotFoundHandler()), cfg) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenError(t *testing.T) {
	cfg := testConfig()
	srv := newServer(cfg, http.NotFoundHandler())
	srv.Addr = "256.0.0.1:1"
	err := serve(context.Background(), srv, cfg)
	assert.Error(t, err)
}

func TestRun_MongoUnavailable(t *testing.T) {
	err := run(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to MongoDB")
}
