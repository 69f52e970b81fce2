// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	started  chan struct{}
	release  chan struct{}
	serveErr error
	shutdown bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{}), release: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	close(f.started)
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.release
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdown = true
	close(f.release)
	return nil
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.True(t, srv.shutdown)
}

func TestHTTPServerServiceReportsStartupFailure(t *testing.T) {
	srv := newFakeServer()
	srv.serveErr = errors.New("bind: address already in use")
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server failed")
}

func TestBadgerGCServiceInMemoryNoop(t *testing.T) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewBadgerGCService(db, time.Minute, 0.5, zerolog.Nop())

	// In-memory mode has no value log to collect; the loop must surface
	// the error instead of spinning.
	assert.Error(t, svc.runGC())
}

func TestBadgerGCServiceDefaults(t *testing.T) {
	svc := NewBadgerGCService(nil, 0, 0, zerolog.Nop())
	assert.Equal(t, 10*time.Minute, svc.interval)
	assert.InDelta(t, 0.5, svc.discardRatio, 1e-9)
}

func TestTreeServesAndStops(t *testing.T) {
	tree := NewTree(zerolog.Nop(), TreeConfig{ShutdownTimeout: time.Second})
	srv := newFakeServer()
	tree.AddAPIService(NewHTTPServerService(srv, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	<-srv.started
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			assert.ErrorIs(t, err, context.Canceled)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}
