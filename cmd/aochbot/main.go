package main

import (
	"os"

	"github.com/palemoky/aoch-leaderboard/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
