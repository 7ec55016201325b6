package main

import (
	"os"

	"github.com/selwrite/selwrite/cmd"
	"github.com/selwrite/selwrite/pkg/logging"
)

func main() {
	logger := logging.GetLogger(false)
	defer func() {
		if err := logger.Close(); err != nil {
			os.Stderr.WriteString("Error closing logger: " + err.Error() + "\n")
		}
	}()

	if err := cmd.Execute(); err != nil {
		logger.Error("Application error: %v", err)
		os.Exit(1)
	}
}
