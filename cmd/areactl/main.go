package main

import (
	"os"

	"square-area-client/internal/config"
	"square-area-client/internal/observability"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		observability.Logger.Warn(err.Error())
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
