package main

import (
	"log/slog"
	"os"

	"blognest/internal/transport/http"
	"blognest/pkg/logging"
)

func main() {
	logging.Setup()

	if err := http.Run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
