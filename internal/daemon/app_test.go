// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/movieinfo/internal/api"
	"github.com/ManuGH/movieinfo/internal/config"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/service"
	"github.com/ManuGH/movieinfo/internal/domain/movieinfo/store"
	"github.com/ManuGH/movieinfo/internal/health"
	"github.com/ManuGH/movieinfo/internal/log"
)

type fakeServer struct {
	startErr  error
	started   chan struct{}
	stop      chan struct{}
	stopOnce  sync.Once
	shutdowns atomic.Int32
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, started: make(chan struct{}), stop: make(chan struct{})}
}

func (f *fakeServer) Start() error {
	close(f.started)
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stop
	return nil
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	f.stopOnce.Do(func() { close(f.stop) })
	return nil
}

func runAsync(app *App, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRun_RequiresServer(t *testing.T) {
	app := NewApp(zerolog.Nop(), nil, nil, 0)
	assert.ErrorIs(t, app.Run(context.Background()), ErrMissingServer)
}

func TestRun_CancelShutsDownGracefully(t *testing.T) {
	srv := newFakeServer(nil)
	app := NewApp(zerolog.Nop(), srv, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(app, ctx)
	<-srv.started
	cancel()

	require.NoError(t, waitDone(t, done))
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestRun_StartFailureIsReturned(t *testing.T) {
	boom := errors.New("address in use")
	srv := newFakeServer(boom)
	app := NewApp(zerolog.Nop(), srv, nil, time.Second)

	err := waitDone(t, runAsync(app, context.Background()))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestRun_ReloadAppliesLogLevel(t *testing.T) {
	t.Cleanup(func() { _ = log.SetLevel("info") })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: info\n"), 0o600))

	loader := config.NewLoader(path, "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	holder := config.NewHolder(cfg, loader)

	srv := newFakeServer(nil)
	app := NewApp(zerolog.Nop(), srv, holder, time.Second)
	app.reloadSignal = nil

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(app, ctx)
	<-srv.started

	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o600))
	require.NoError(t, holder.Reload(ctx))

	assert.Eventually(t, func() bool {
		return zerolog.GlobalLevel() == zerolog.DebugLevel
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, waitDone(t, done))
}

func TestRun_ServesHTTPUntilCancelled(t *testing.T) {
	s, err := store.OpenStore(context.Background(), store.Options{Backend: store.BackendMemory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	hm := health.NewManager("test")
	hm.RegisterChecker(health.NewStoreChecker(store.BackendMemory, s, 0))
	srv := api.New(api.Config{ListenAddr: "127.0.0.1:0"}, service.New(s), hm)

	app := NewApp(zerolog.Nop(), srv, nil, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(app, ctx)

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/readyz", srv.Addr()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, waitDone(t, done))
}
