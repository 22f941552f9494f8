package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lightningsoon/KeyMinder/internal/config"
	"github.com/lightningsoon/KeyMinder/internal/handler"
	myGRPC "github.com/lightningsoon/KeyMinder/internal/handler/grpc"
	myHTTP "github.com/lightningsoon/KeyMinder/internal/handler/http"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingWorkers struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (w *blockingWorkers) Run(ctx context.Context) {
	w.started.Store(true)
	<-ctx.Done()
	w.stopped.Store(true)
}

func TestNewServer_NoAddresses(t *testing.T) {
	s, err := NewServer(&handler.Handlers{}, nil, config.Server{}, logger.Nop())

	assert.ErrorIs(t, err, errNoServersAreCreated)
	assert.Nil(t, s)
}

func TestNewServer_GRPCAddressInUse(t *testing.T) {
	cfg := config.Server{GRPCAddress: "127.0.0.1:0"}
	first, err := newGRPCServer(myGRPC.NewHandler(logger.Nop()), cfg, logger.Nop())
	require.NoError(t, err)
	defer first.gRPCNetListener.Close()

	busy := config.Server{GRPCAddress: first.gRPCNetListener.Addr().String()}
	_, err = NewServer(&handler.Handlers{GRPC: myGRPC.NewHandler(logger.Nop())}, nil, busy, logger.Nop())

	assert.Error(t, err)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", GRPCAddress: "127.0.0.1:0"}
	handlers := &handler.Handlers{
		HTTP: myHTTP.NewHandler(&service.Services{}, config.StructuredConfig{Server: cfg}, logger.Nop()),
		GRPC: myGRPC.NewHandler(logger.Nop()),
	}
	workers := &blockingWorkers{}

	s, err := NewServer(handlers, workers, cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.(*server).run(ctx) }()

	assert.Eventually(t, workers.started.Load, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, workers.stopped.Load())
}

func TestHTTPServer_ShutdownBeforeServe(t *testing.T) {
	s := newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())

	s.Shutdown()
	// returns http.ErrServerClosed at once, which is not logged as an error
	s.RunServer()
}
