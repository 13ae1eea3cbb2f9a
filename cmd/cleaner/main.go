package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	"usuario/internal/app/deps"
	"usuario/internal/app/services"
	"usuario/internal/core/domain/logging"
	deleteexpiredtokens "usuario/internal/core/services/delete_expired_tokens"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	ticker := time.NewTicker(deps.Config.TokenCleanupPeriod)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic token cleaner.",
		logging.Entry("periodMinutes", deps.Config.TokenCleanupPeriod.Minutes()),
	)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic token cleaner.")
			break loop
		case <-ticker.C:
			_, err := services.DeleteExpiredTokens.Run(context.Background(), deleteexpiredtokens.Input{})
			if err != nil {
				log.Error(context.Background(), "Token cleanup returned an error.", logging.Entry("err", err))
			}
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
