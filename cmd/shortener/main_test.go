package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/config"
	"github.com/atinyakov/shortlink/internal/models"
)

func testOptions() *config.Options {
	return &config.Options{
		Port:           "127.0.0.1:0",
		ResultHostname: "http://sho.rt",
		LogLevel:       "info",
		CodeLength:     7,
		CodeStrategy:   "sequence",
		MaxAliasLength: 32,
		MaxAttempts:    5,
		ClickWorkers:   2,
		ClickBuffer:    16,
		StoreTimeout:   config.Duration{Duration: time.Second},
	}
}

func TestApp_ShortenRedirectStats(t *testing.T) {
	a, err := newApp(context.Background(), testOptions(), zap.NewNop())
	require.NoError(t, err)

	ts := httptest.NewServer(a.handler)
	defer ts.Close()

	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Post(ts.URL+"/shorten", "application/json",
		strings.NewReader(`{"url":"https://example.com/page","custom_alias":"docs"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.ShortenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "http://sho.rt/docs", created.ShortURL)

	redirect, err := client.Get(ts.URL + "/docs")
	require.NoError(t, err)
	redirect.Body.Close()
	assert.Equal(t, http.StatusFound, redirect.StatusCode)
	assert.Equal(t, "https://example.com/page", redirect.Header.Get("Location"))

	// the click lands once the worker has drained
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, a.clicks.Close(ctx))

	stats, err := client.Get(ts.URL + "/stats/docs")
	require.NoError(t, err)
	defer stats.Body.Close()

	var got models.StatsResponse
	require.NoError(t, json.NewDecoder(stats.Body).Decode(&got))
	assert.Equal(t, int64(1), got.TotalClicks)
}

func TestApp_RejectsBadSubnet(t *testing.T) {
	opts := testOptions()
	opts.TrustedSubnet = "not-a-cidr"

	_, err := newApp(context.Background(), opts, zap.NewNop())
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := newApp(context.Background(), testOptions(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestOrNA(t *testing.T) {
	assert.Equal(t, "N/A", orNA(""))
	assert.Equal(t, "v1.2.0", orNA("v1.2.0"))
}
