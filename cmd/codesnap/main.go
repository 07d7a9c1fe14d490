package main

import (
	"log"
	"os"

	"github.com/temirov/codesnap/internal/cli"
	"github.com/temirov/codesnap/internal/utils"
)

func main() {
	applicationLogger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		log.Fatalf("failed to initialize logger: %v", loggerError)
	}
	defer func() {
		_ = applicationLogger.Sync()
	}()

	exitCode := cli.Execute(applicationLogger)
	_ = applicationLogger.Sync()
	os.Exit(exitCode)
}
