// Eventrank - Personalized Event Recommendation Ranking for LankaConnect
// Copyright 2026 LankaConnect
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lankaconnect/eventrank

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// mockServer scripts ListenAndServe and records Shutdown calls.
type mockServer struct {
	serveErr error
	release  chan struct{}
	shutdown chan struct{}
}

func newMockServer(serveErr error) *mockServer {
	return &mockServer{
		serveErr: serveErr,
		release:  make(chan struct{}),
		shutdown: make(chan struct{}, 1),
	}
}

func (m *mockServer) ListenAndServe() error {
	<-m.release
	if m.serveErr != nil {
		return m.serveErr
	}
	return http.ErrServerClosed
}

func (m *mockServer) Shutdown(context.Context) error {
	m.shutdown <- struct{}{}
	close(m.release)
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	t.Parallel()

	server := newMockServer(nil)
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}

	select {
	case <-server.shutdown:
	default:
		t.Error("Shutdown was not called")
	}
}

func TestHTTPServiceListenFailure(t *testing.T) {
	t.Parallel()

	listenErr := errors.New("listen tcp: address already in use")
	server := newMockServer(listenErr)
	close(server.release) // fail immediately

	svc := NewHTTPService(server, time.Second)
	err := svc.Serve(context.Background())
	if !errors.Is(err, listenErr) {
		t.Errorf("Serve() error = %v, want the listen failure", err)
	}
}

func TestNewHTTPServiceDefaultTimeout(t *testing.T) {
	t.Parallel()

	svc := NewHTTPService(newMockServer(nil), 0)
	if svc.shutdownTimeout <= 0 {
		t.Errorf("shutdownTimeout = %v, want a positive default", svc.shutdownTimeout)
	}
}

func TestTreeWiring(t *testing.T) {
	t.Parallel()

	tree := NewTree(nil, TreeConfig{})
	if tree.Root() == nil {
		t.Fatal("Root() returned nil")
	}
}
