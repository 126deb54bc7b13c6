package main

import (
	"context"
	"log"
	"time"

	"accounthilfe/internal/services"
)

const deadlineSweepTimeout = 5 * time.Minute

// startDeadlineSweeper runs the deadline sweep once a day in-process, as a
// fallback for deployments without an external cron trigger. The sweep is
// idempotent, so running both does no harm.
func startDeadlineSweeper(ctx context.Context, svc *services.DeadlineService, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		if errorLog != nil {
			errorLog.Printf("deadline sweeper: failed to load location Europe/Berlin: %v", err)
		}
		loc = time.FixedZone("Europe/Berlin", 1*60*60)
	}

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, deadlineSweepTimeout)
			res, err := svc.Sweep(runCtx, time.Now().In(loc))
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("deadline sweeper: sweep failed: %v", err)
				}
			} else if infoLog != nil {
				infoLog.Printf("deadline sweeper: checked %d cases, %d reminders, %d expired", res.Checked, res.Reminders, res.Expired)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
