package server

import (
	"io/ioutil"
	"net"
	"net/http"
	"testing"
	"time"

	testhelper "github.com/mrincompetent/pivpn-exporter/pkg/test"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnableFunc func(stop <-chan struct{}) error

func (f runnableFunc) Start(stop <-chan struct{}) error {
	return f(stop)
}

func blockUntilStopped(stopped chan<- struct{}) Runnable {
	return runnableFunc(func(stop <-chan struct{}) error {
		<-stop
		close(stopped)
		return nil
	})
}

func TestRunStopsOnSignal(t *testing.T) {
	stop := make(chan struct{})
	first, second := make(chan struct{}), make(chan struct{})

	done := make(chan error)
	go func() { done <- Run(stop, blockUntilStopped(first), blockUntilStopped(second)) }()

	close(stop)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runnables were not stopped")
	}
	<-first
	<-second
}

func TestRunStopsAllWhenOneFails(t *testing.T) {
	stopped := make(chan struct{})
	failing := runnableFunc(func(<-chan struct{}) error {
		return errors.New("unable to listen on [::]:9200: address already in use")
	})

	err := Run(make(chan struct{}), blockUntilStopped(stopped), failing)

	assert.EqualError(t, err, "unable to listen on [::]:9200: address already in use")
	<-stopped
}

func TestRunCombinesErrors(t *testing.T) {
	failWith := func(msg string) Runnable {
		return runnableFunc(func(stop <-chan struct{}) error {
			<-stop
			return errors.New(msg)
		})
	}
	stop := make(chan struct{})
	close(stop)

	err := Run(stop, failWith("first"), failWith("second"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestHTTPServer(t *testing.T) {
	log, _ := testhelper.Logger()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	s := NewHTTPServer(log, "test", "127.0.0.1:0", handler)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	stop := make(chan struct{})
	done := make(chan error)
	go func() { done <- s.serve(listener, stop) }()

	res, err := http.Get("http://" + listener.Addr().String() + "/")
	require.NoError(t, err)
	body, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "hello", string(body))

	close(stop)
	require.NoError(t, <-done)
}

func TestHTTPServerBindFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	log, _ := testhelper.Logger()
	s := NewHTTPServer(log, "test", listener.Addr().String(), http.NotFoundHandler())

	err = s.Start(make(chan struct{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to listen on "+listener.Addr().String())
}
