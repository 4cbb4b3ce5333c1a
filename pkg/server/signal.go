package server

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a channel which gets closed on SIGINT or SIGTERM.
// A second signal terminates the process directly.
func SetupSignalHandler() <-chan struct{} {
	stop := make(chan struct{})
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		close(stop)
		<-c
		os.Exit(1)
	}()

	return stop
}
