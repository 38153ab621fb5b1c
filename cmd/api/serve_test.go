package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-planner/internal/config"
	"pet-care-planner/internal/domain/notifications"
	"pet-care-planner/internal/router"
)

func TestServer_ShutdownEndsOpenStreams(t *testing.T) {
	feed := notifications.NewFeed(0)
	srv := newServer(config.Default(), router.NewRouter(router.Options{Feed: feed}), feed)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	req, err := http.NewRequest(http.MethodGet, "http://"+ln.Addr().String()+"/notifications/stream", nil)
	require.NoError(t, err)
	req.Header.Set("X-Debug-User-ID", "u1")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := bufio.NewReader(res.Body)
	line, err := body.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": subscribed\n", line)
	assert.Equal(t, 1, feed.Active("u1"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)

	// el stream terminó del lado del server
	_, err = io.ReadAll(body)
	assert.NoError(t, err)
	assert.Equal(t, 0, feed.Active("u1"))

	assert.True(t, errors.Is(<-served, http.ErrServerClosed))
}
