package main

import (
	"context"
	"time"

	"github.com/uzochukwuV/massabeam/internal/logging"
	"github.com/uzochukwuV/massabeam/internal/service"
)

// keeperIdentity is the caller recorded on forfeits the keeper triggers.
const keeperIdentity = "keeper"

// startForfeitKeeper periodically forfeits battles past their inactivity
// deadline until ctx is cancelled. It uses the same permissionless forfeit
// any other caller could invoke.
func startForfeitKeeper(ctx context.Context, svc *service.Service, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := svc.HandleTimedOutBattles(ctx, keeperIdentity)
				if err != nil {
					logging.Error("forfeit keeper failed", err, nil)
					continue
				}
				if n > 0 {
					logging.Info("forfeit keeper ended battles", logging.Fields{"count": n})
				}
			}
		}
	}()
}
