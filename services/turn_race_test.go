package services

import (
	"errors"
	"sync"
	"testing"

	"darts-league-system/models"
)

// Two "my turn" requests racing must not both pass the alternation check:
// submissions for one match are serialized by the per-match lock, so exactly
// one concurrent duplicate wins and the rest fail the alternation check.
func TestConcurrentSubmissionsSerialized(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, _, errs[i] = s.ProcessTurn(m.ID, alice, []int{20})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrNotYourTurn):
			// expected for the losers of the race
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if accepted != 1 {
		t.Fatalf("%d concurrent submissions accepted, want exactly 1", accepted)
	}

	var count int64
	s.DB.Model(&models.Turn{}).Where("match_id = ?", m.ID).Count(&count)
	if count != 1 {
		t.Fatalf("%d turns recorded, want 1", count)
	}

	reloaded, _ := s.GetByID(m.ID)
	if reloaded.Player1Score != 481 {
		t.Errorf("remaining = %d, want 481", reloaded.Player1Score)
	}
}
