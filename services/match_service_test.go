package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"darts-league-system/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
	carol = "33333333-3333-3333-3333-333333333333"
)

func newTestService(t *testing.T) *MatchService {
	t.Helper()

	// a named shared-cache DSN so every pooled connection sees one database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Player{},
		&models.Match{},
		&models.Turn{},
		&models.Confirmation{},
		&models.Message{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for i, id := range []string{alice, bob, carol} {
		p := models.Player{
			ID:             id,
			ExternalUserID: id,
			Username:       []string{"alice", "bob", "carol"}[i],
		}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}

	return NewMatchService(db)
}

// startedMatch creates an accepted 501 match between alice (player1) and bob.
func startedMatch(t *testing.T, s *MatchService) *models.Match {
	t.Helper()
	m, err := s.CreateChallenge(alice, bob, models.GameType501, "")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	m, err = s.Accept(m.ID, bob)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	return m
}

// setScores forces both remaining scores, to reach endgame states quickly.
func setScores(t *testing.T, s *MatchService, matchID string, p1, p2 int) {
	t.Helper()
	err := s.DB.Model(&models.Match{}).Where("id = ?", matchID).
		Updates(map[string]interface{}{"player1_score": p1, "player2_score": p2}).Error
	if err != nil {
		t.Fatalf("setScores: %v", err)
	}
}

func TestCreateChallenge(t *testing.T) {
	s := newTestService(t)

	m, err := s.CreateChallenge(alice, bob, models.GameType501, "friday league")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if m.Status != models.MatchStatusScheduled {
		t.Errorf("status = %s, want scheduled", m.Status)
	}
	if m.Player1Score != 501 || m.Player2Score != 501 {
		t.Errorf("scores = %d/%d, want 501/501", m.Player1Score, m.Player2Score)
	}

	if _, err := s.CreateChallenge(alice, alice, models.GameType501, ""); err == nil {
		t.Error("expected error challenging yourself")
	}
	if _, err := s.CreateChallenge(alice, "nobody", models.GameType501, ""); err == nil {
		t.Error("expected error for unknown opponent")
	}
	if _, err := s.CreateChallenge(alice, bob, "999", ""); err == nil {
		t.Error("expected error for unsupported game type")
	}
}

func TestPracticeMatchSkipsScheduled(t *testing.T) {
	s := newTestService(t)

	m, err := s.CreateChallenge(alice, bob, models.GameTypePractice, "")
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if m.Status != models.MatchStatusInProgress {
		t.Errorf("practice match status = %s, want in_progress", m.Status)
	}
}

func TestAcceptOnlyByInvitee(t *testing.T) {
	s := newTestService(t)
	m, _ := s.CreateChallenge(alice, bob, models.GameType501, "")

	if _, err := s.Accept(m.ID, alice); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("challenger accept error = %v, want ErrNotParticipant", err)
	}
	if _, err := s.Accept(m.ID, carol); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider accept error = %v, want ErrNotParticipant", err)
	}

	got, err := s.Accept(m.ID, bob)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Status != models.MatchStatusInProgress {
		t.Errorf("status = %s, want in_progress", got.Status)
	}

	if _, err := s.Accept(m.ID, bob); !errors.Is(err, ErrMatchNotScheduled) {
		t.Errorf("double accept error = %v, want ErrMatchNotScheduled", err)
	}
}

func TestDeclineRemovesMatch(t *testing.T) {
	s := newTestService(t)
	m, _ := s.CreateChallenge(alice, bob, models.GameType501, "")

	if err := s.Decline(m.ID, bob); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if _, err := s.GetByID(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("declined match still readable: %v", err)
	}
}

func TestCancelBeforeStartRemovesMatch(t *testing.T) {
	s := newTestService(t)
	m, _ := s.CreateChallenge(alice, bob, models.GameType501, "")

	if _, err := s.Cancel(m.ID, alice); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := s.GetByID(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("cancelled invite still readable: %v", err)
	}
}

func TestCancelInProgressIsForfeiture(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	got, err := s.Cancel(m.ID, bob)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != models.MatchStatusCancelled {
		t.Errorf("status = %s, want cancelled", got.Status)
	}
	if got.WinnerID != nil {
		t.Errorf("forfeiture must not set a winner, got %v", *got.WinnerID)
	}
	if got.CompletedAt == nil {
		t.Error("forfeiture must stamp a completion timestamp")
	}
}

func TestTurnAlternation(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	// player2 cannot open the match
	if _, _, _, err := s.ProcessTurn(m.ID, bob, []int{20}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("player2 opening error = %v, want ErrNotYourTurn", err)
	}

	// player1 opens
	if _, _, _, err := s.ProcessTurn(m.ID, alice, []int{60, 60, 60}); err != nil {
		t.Fatalf("player1 turn: %v", err)
	}

	// player1 cannot go twice
	if _, _, _, err := s.ProcessTurn(m.ID, alice, []int{20}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("player1 repeat error = %v, want ErrNotYourTurn", err)
	}

	// alternation continues, seq strictly increases
	if _, turn, _, err := s.ProcessTurn(m.ID, bob, []int{5, 20, 1}); err != nil {
		t.Fatalf("player2 turn: %v", err)
	} else if turn.Seq != 2 {
		t.Errorf("second turn seq = %d, want 2", turn.Seq)
	}

	var turns []models.Turn
	if err := s.DB.Where("match_id = ?", m.ID).Order("seq ASC").Find(&turns).Error; err != nil {
		t.Fatalf("load turns: %v", err)
	}
	want := []string{alice, bob}
	for i, turn := range turns {
		if turn.PlayerID != want[i%2] {
			t.Errorf("turn %d by %s, want %s", turn.Seq, turn.PlayerID, want[i%2])
		}
	}
}

func TestTurnUpdatesScores(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	got, turn, isCheckout, err := s.ProcessTurn(m.ID, alice, []int{60, 60, 60})
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if isCheckout {
		t.Error("180 from 501 must not be a checkout")
	}
	if got.Player1Score != 321 {
		t.Errorf("player1 remaining = %d, want 321", got.Player1Score)
	}
	if got.Player2Score != 501 {
		t.Errorf("player2 remaining = %d, want 501", got.Player2Score)
	}
	if turn.TurnScore != 180 {
		t.Errorf("turn score = %d, want 180", turn.TurnScore)
	}
}

func TestBustRejectedWithoutRecording(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)
	setScores(t, s, m.ID, 40, 501)

	_, _, _, err := s.ProcessTurn(m.ID, alice, []int{60})
	if !errors.Is(err, ErrBust) {
		t.Fatalf("bust error = %v, want ErrBust", err)
	}

	// no turn recorded, no score change
	var count int64
	s.DB.Model(&models.Turn{}).Where("match_id = ?", m.ID).Count(&count)
	if count != 0 {
		t.Errorf("bust recorded %d turn(s), want 0", count)
	}
	reloaded, _ := s.GetByID(m.ID)
	if reloaded.Player1Score != 40 {
		t.Errorf("score after bust = %d, want 40", reloaded.Player1Score)
	}

	// the same player may resubmit immediately
	if _, _, _, err := s.ProcessTurn(m.ID, alice, []int{20}); err != nil {
		t.Fatalf("resubmission after bust: %v", err)
	}
}

func TestInvalidDartsRejected(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	for _, darts := range [][]int{{}, {10, 10, 10, 10}, {61}, {-1}} {
		if _, _, _, err := s.ProcessTurn(m.ID, alice, darts); !errors.Is(err, ErrInvalidDarts) {
			t.Errorf("ProcessTurn(%v) error = %v, want ErrInvalidDarts", darts, err)
		}
	}
}

func TestCheckoutCompletesMatch(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)
	setScores(t, s, m.ID, 40, 300)

	got, _, isCheckout, err := s.ProcessTurn(m.ID, alice, []int{40}) // double-20
	if err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}
	if !isCheckout {
		t.Fatal("expected a checkout")
	}
	if got.Status != models.MatchStatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.WinnerID == nil || *got.WinnerID != alice {
		t.Errorf("winner = %v, want %s", got.WinnerID, alice)
	}
	if got.Player1Score != 0 {
		t.Errorf("winner remaining = %d, want 0", got.Player1Score)
	}

	// no further turns accepted
	if _, _, _, err := s.ProcessTurn(m.ID, bob, []int{20}); !errors.Is(err, ErrMatchNotInProgress) {
		t.Errorf("post-completion turn error = %v, want ErrMatchNotInProgress", err)
	}
}

func TestTurnRejectedWhenNotInProgress(t *testing.T) {
	s := newTestService(t)
	m, _ := s.CreateChallenge(alice, bob, models.GameType501, "")

	if _, _, _, err := s.ProcessTurn(m.ID, alice, []int{20}); !errors.Is(err, ErrMatchNotInProgress) {
		t.Errorf("scheduled match turn error = %v, want ErrMatchNotInProgress", err)
	}
	if _, _, _, err := s.ProcessTurn("missing-id", alice, []int{20}); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("unknown match error = %v, want ErrMatchNotFound", err)
	}
	if _, _, _, err := s.ProcessTurn(m.ID, carol, []int{20}); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider turn error = %v, want ErrNotParticipant", err)
	}
}

// completedMatch plays alice to a checkout so the confirmation protocol can run.
func completedMatch(t *testing.T, s *MatchService) *models.Match {
	t.Helper()
	m := startedMatch(t, s)
	setScores(t, s, m.ID, 40, 40)
	got, _, _, err := s.ProcessTurn(m.ID, alice, []int{40})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return got
}

func TestConfirmationConsensusConfirmed(t *testing.T) {
	s := newTestService(t)
	m := completedMatch(t, s)

	_, got, err := s.RecordConfirmation(m.ID, alice, true, "")
	if err != nil {
		t.Fatalf("first confirmation: %v", err)
	}
	if got.Status != models.MatchStatusCompleted {
		t.Errorf("status after one confirmation = %s, want completed", got.Status)
	}

	_, got, err = s.RecordConfirmation(m.ID, bob, true, "")
	if err != nil {
		t.Fatalf("second confirmation: %v", err)
	}
	if got.Status != models.MatchStatusCompleted {
		t.Errorf("status after consensus = %s, want completed", got.Status)
	}
}

func TestConfirmationConsensusDisputed(t *testing.T) {
	s := newTestService(t)
	m := completedMatch(t, s)

	if _, _, err := s.RecordConfirmation(m.ID, alice, true, ""); err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	conf, got, err := s.RecordConfirmation(m.ID, bob, false, "those scores are wrong")
	if err != nil {
		t.Fatalf("dispute: %v", err)
	}
	if !conf.Disputed || conf.Confirmed {
		t.Errorf("dispute row = confirmed=%v disputed=%v", conf.Confirmed, conf.Disputed)
	}
	if got.Status != models.MatchStatusDisputed {
		t.Errorf("status = %s, want disputed", got.Status)
	}
}

func TestConfirmationIdempotenceGuard(t *testing.T) {
	s := newTestService(t)
	m := completedMatch(t, s)

	first, _, err := s.RecordConfirmation(m.ID, alice, true, "")
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}

	// resubmission is rejected, never overwritten
	if _, _, err := s.RecordConfirmation(m.ID, alice, false, "changed my mind"); !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("resubmission error = %v, want ErrAlreadyResponded", err)
	}

	var stored models.Confirmation
	if err := s.DB.First(&stored, "match_id = ? AND player_id = ?", m.ID, alice).Error; err != nil {
		t.Fatalf("load confirmation: %v", err)
	}
	if stored.ID != first.ID || !stored.Confirmed {
		t.Error("original confirmation was overwritten")
	}
}

func TestConfirmationRequiresCompletedMatch(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	if _, _, err := s.RecordConfirmation(m.ID, alice, true, ""); !errors.Is(err, ErrMatchNotCompleted) {
		t.Errorf("error = %v, want ErrMatchNotCompleted", err)
	}
	if _, _, err := s.RecordConfirmation(m.ID, carol, true, ""); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider error = %v, want ErrNotParticipant", err)
	}
}

// A turn accepted while the opponent is disconnected from the relay must
// still be visible via refetch: authoritative state lives in the database,
// not in the relay.
func TestTurnVisibleByRefetchWithoutRelay(t *testing.T) {
	s := newTestService(t)
	m := startedMatch(t, s)

	if _, _, _, err := s.ProcessTurn(m.ID, alice, []int{60, 60, 60}); err != nil {
		t.Fatalf("ProcessTurn: %v", err)
	}

	reloaded, err := s.GetByID(m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(reloaded.Turns) != 1 {
		t.Fatalf("refetched match has %d turns, want 1", len(reloaded.Turns))
	}
	if reloaded.Player1Score != 321 {
		t.Errorf("refetched remaining = %d, want 321", reloaded.Player1Score)
	}
}
