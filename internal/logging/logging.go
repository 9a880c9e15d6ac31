package logging

import "go.uber.org/zap"

// Logger is the process-wide structured logger, set by Init before any
// other package runs.
var Logger *zap.Logger

func Init() {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
}

// InitDevelopment switches to the human-readable development encoder.
// Used by tests and local runs.
func InitDevelopment() {
	var err error
	Logger, err = zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
}
