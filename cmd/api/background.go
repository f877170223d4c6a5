package main

import (
	"context"
	"time"
)

// runCleanupSweeps deletes expired sessions and carts on a fixed cadence.
// Lazy eviction on read handles the hot path; the sweep clears what nobody
// reads anymore.
func (app *application) runCleanupSweeps(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Run once immediately
		app.sweepExpired()

		for range ticker.C {
			app.sweepExpired()
		}
	}()
}

func (app *application) sweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	nSessions, err := app.sessions.CleanupExpiredSessions(ctx)
	if err != nil {
		app.logger.Errorf("Error cleaning up expired sessions: %v", err)
	} else {
		app.logger.Infow("session cleanup sweep finished", "deleted", nSessions)
	}

	nCarts, err := app.carts.CleanupExpiredCarts(ctx)
	if err != nil {
		app.logger.Errorf("Error cleaning up expired carts: %v", err)
	} else {
		app.logger.Infow("cart cleanup sweep finished", "deleted", nCarts)
	}
}
