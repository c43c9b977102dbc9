package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/teamvote/internal/teamvote/store"
)

// HousekeepingService periodically deletes expired registration tokens and
// audits team tallies against the members' votes, repairing any drift.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// HousekeepingReport summarizes one pass.
type HousekeepingReport struct {
	ExpiredTokens   int64
	RepairedTallies int
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs a pass immediately and then on every tick. Non-blocking.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress pass has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one pass. Each step is independent; a failure in one is
// logged and does not stop the other.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	var report HousekeepingReport
	s.Logger.Debug("starting housekeeping pass")

	n, err := s.Store.RegistrationTokens().DeleteExpiredRegistrationTokens(ctx, time.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to delete expired registration tokens", "error", err)
	} else {
		report.ExpiredTokens = n
	}

	repaired, err := s.auditTallies(ctx)
	if err != nil {
		s.Logger.Error("failed to audit tallies", "error", err)
	} else {
		report.RepairedTallies = repaired
	}

	s.Logger.Info("housekeeping pass completed",
		"expired_tokens", report.ExpiredTokens,
		"repaired_tallies", report.RepairedTallies,
	)
	return report
}

// auditTallies recounts votes from the members table and overwrites any team
// whose stored vote_count disagrees.
func (s *HousekeepingService) auditTallies(ctx context.Context) (int, error) {
	repaired := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		counts, err := tx.Members().CountVotesByTeam(ctx)
		if err != nil {
			return err
		}
		tallies, err := tx.Teams().ListTallies(ctx)
		if err != nil {
			return err
		}

		for _, t := range tallies {
			actual := counts[t.TeamID]
			if actual == t.Votes {
				continue
			}
			s.Logger.Warn("tally drift repaired",
				slog.String("team_id", t.TeamID),
				slog.Int64("stored", t.Votes),
				slog.Int64("actual", actual),
			)
			if err := tx.Teams().SetVoteCount(ctx, t.TeamID, actual); err != nil {
				return err
			}
			repaired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return repaired, nil
}
