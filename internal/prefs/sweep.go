package prefs

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Sweep reclaims expired preference rows and returns how many were
// removed. The predicate is the row's own expiry, so a sweep can never
// destroy a record that a concurrent Set just refreshed.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE expires_at <= ?`, s.nowMS())
	if err != nil {
		return 0, fmt.Errorf("sweeping expired preferences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting swept rows: %w", err)
	}
	return n, nil
}

// StartSweeper runs Sweep on the given interval until ctx is done.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.Sweep(ctx); err != nil {
					log.Printf("preference sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("preference sweep reclaimed %d expired records", n)
				}
			}
		}
	}()
}
