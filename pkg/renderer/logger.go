package renderer

import (
	"log"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing through the standard logger
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// discardLogger drops every message
type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}

// NewDiscardLogger returns a logger that drops every message
func NewDiscardLogger() core.Logger {
	return discardLogger{}
}
