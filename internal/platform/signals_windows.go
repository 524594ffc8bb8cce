//go:build windows

package platform

import "os"

// Windows does not reliably deliver SIGTERM to console apps.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
