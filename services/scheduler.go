// services/scheduler.go
package services

import (
	"log"
	"time"

	"darts-league-system/models"

	"github.com/go-co-op/gocron/v2"
)

const (
	staleInviteAge         = 14 * 24 * time.Hour
	unconfirmedReminderAge = 24 * time.Hour
)

// StartHousekeepingScheduler runs the periodic maintenance jobs:
// purging scheduled matches nobody ever accepted, and logging a reminder
// sweep for completed matches still awaiting both confirmations. The sweep
// never mutates consensus state — unconfirmed matches stay pending.
func (s *MatchService) StartHousekeepingScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Hourly: drop stale invites
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-staleInviteAge)
			res := s.DB.
				Where("status = ? AND created_at < ?", models.MatchStatusScheduled, cutoff).
				Delete(&models.Match{})
			if res.Error != nil {
				log.Printf("[Scheduler] stale invite purge failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🧹 Purged %d stale match invite(s)", res.RowsAffected)
			}
		}),
	)

	// Hourly: remind about completed matches missing confirmations
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-unconfirmedReminderAge)
			var matches []models.Match
			if err := s.DB.
				Where("status = ? AND updated_at < ?", models.MatchStatusCompleted, cutoff).
				Find(&matches).Error; err != nil {
				log.Printf("[Scheduler] reminder sweep failed: %v", err)
				return
			}
			for _, m := range matches {
				var count int64
				if err := s.DB.Model(&models.Confirmation{}).
					Where("match_id = ?", m.ID).
					Count(&count).Error; err != nil {
					log.Printf("[Scheduler] confirmation count failed for match %s: %v", m.ID, err)
					continue
				}
				if count < 2 {
					log.Printf("⏰ Match %s completed %s but has %d/2 confirmations",
						m.ID, m.UpdatedAt.Format(time.RFC3339), count)
				}
			}
		}),
	)
}
