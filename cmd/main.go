package main

import (
	"errors"
	"io/fs"
	"os"

	"tarif-engine/internal/cli"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var version = "dev"

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnf("Failed to load .env: %v", err)
	}

	app := cli.NewApp(version, logger, os.Stdout)
	if err := app.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
