// Command smartstockctl runs administrative tasks against a SmartStock deployment.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/smartstock/smartstock/internal/app"
)

func main() {
	if app.InTestMode() {
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "smartstockctl: %v\n", err)
		os.Exit(1)
	}
}
