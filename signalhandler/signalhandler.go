package signalhandler

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupHandler runs cleanup and exits on SIGINT/SIGTERM, so an interrupt
// during a long OpenCV call still flushes logs and closes the database.
func SetupHandler(cleanup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if cleanup != nil {
			cleanup()
		}
		if sig == syscall.SIGINT {
			os.Exit(130)
		}
		os.Exit(143)
	}()
}
