package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_AppliesConfig(t *testing.T) {
	srv := New(http.NotFoundHandler(), Config{
		Port:            9090,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    7 * time.Second,
		ShutdownTimeout: time.Second,
	}, testLogger())

	assert.Equal(t, ":9090", srv.Addr())
	assert.Equal(t, 3*time.Second, srv.httpServer.ReadTimeout)
	assert.Equal(t, 7*time.Second, srv.httpServer.WriteTimeout)
}

func TestShutdown_ComponentsRunInReverseOrder(t *testing.T) {
	srv := New(http.NotFoundHandler(), Config{ShutdownTimeout: time.Second}, testLogger())

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		srv.OnShutdown(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestShutdown_JoinsComponentErrors(t *testing.T) {
	srv := New(http.NotFoundHandler(), Config{ShutdownTimeout: time.Second}, testLogger())

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := 0

	srv.OnShutdown("a", func(ctx context.Context) error { ran++; return errA })
	srv.OnShutdown("ok", func(ctx context.Context) error { ran++; return nil })
	srv.OnShutdown("b", func(ctx context.Context) error { ran++; return errB })

	err := srv.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 3, ran, "every component runs even after a failure")
	assert.Contains(t, err.Error(), "a: a failed")
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(handler, Config{ShutdownTimeout: time.Second}, testLogger())

	stopped := make(chan struct{})
	srv.OnShutdown("probe", func(ctx context.Context) error {
		close(stopped)
		return nil
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	select {
	case <-stopped:
	default:
		t.Fatal("registered component was not shut down")
	}
}
