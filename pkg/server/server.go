package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Runnable runs until stop gets closed.
type Runnable interface {
	Start(stop <-chan struct{}) error
}

// Run starts all runnables and blocks until all of them returned.
// They are all stopped as soon as stop gets closed or one of them fails.
func Run(stop <-chan struct{}, runnables ...Runnable) error {
	internalStop := make(chan struct{})
	var stopOnce sync.Once
	stopAll := func() {
		stopOnce.Do(func() { close(internalStop) })
	}

	go func() {
		select {
		case <-stop:
			stopAll()
		case <-internalStop:
		}
	}()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result error
	)
	for _, r := range runnables {
		wg.Add(1)
		go func(r Runnable) {
			defer wg.Done()

			err := r.Start(internalStop)
			if err != nil {
				mu.Lock()
				result = multierr.Append(result, err)
				mu.Unlock()
			}
			// A runnable returning on its own ends the group
			stopAll()
		}(r)
	}

	wg.Wait()
	return result
}

// HTTPServer serves a handler until it gets stopped.
type HTTPServer struct {
	log    *zap.Logger
	server *http.Server
}

func NewHTTPServer(parentLog *zap.Logger, name, listenAddress string, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		log: parentLog.Named(name).With(zap.String("listen-address", listenAddress)),
		server: &http.Server{
			Addr:         listenAddress,
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  15 * time.Second,
		},
	}
}

// Start binds the listen address before serving, so an unusable address fails immediately.
func (s *HTTPServer) Start(stop <-chan struct{}) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", s.server.Addr)
	}

	return s.serve(listener, stop)
}

func (s *HTTPServer) serve(listener net.Listener, stop <-chan struct{}) error {
	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("Starting the http server", zap.String("address", listener.Addr().String()))
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-stop:
	case err, failed := <-serveErr:
		if failed {
			return errors.Wrap(err, "http server failed")
		}
	}

	s.log.Info("Stopping the http server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
