// Package obs wires the observability stack: structured logging and tracing.
package obs

import (
	"go.uber.org/zap"
)

// NewLogger builds the service-wide structured logger. JSON output at info
// level; DEBUG=1 switches to the development config.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
