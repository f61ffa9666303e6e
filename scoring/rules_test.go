package scoring

import (
	"testing"

	"darts-league-system/models"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		gameType  string
		remaining int
		darts     []int
		wantKind  string
		wantLeft  int
	}{
		{"max turn from 501", models.GameType501, 501, []int{60, 60, 60}, KindNormal, 321},
		{"negative remainder busts", models.GameType501, 40, []int{60}, KindBust, 0},
		{"remainder of one busts double-out", models.GameType501, 41, []int{40}, KindBust, 0},
		{"double-20 checkout", models.GameType501, 40, []int{40}, KindCheckout, 0},
		{"double bull checkout", models.GameType301, 50, []int{50}, KindCheckout, 0},
		{"odd finishing dart busts", models.GameType501, 39, []int{39}, KindBust, 0},
		{"finishing dart above 40 busts", models.GameType701, 42, []int{42}, KindBust, 0},
		{"three-dart finish judged on last dart", models.GameType501, 100, []int{60, 20, 20}, KindCheckout, 0},
		{"three-dart finish with odd last dart busts", models.GameType501, 100, []int{60, 21, 19}, KindBust, 0},
		{"practice exact zero needs no double", models.GameTypePractice, 39, []int{39}, KindCheckout, 0},
		{"practice remainder of one allowed", models.GameTypePractice, 41, []int{40}, KindNormal, 1},
		{"cricket exact zero needs no double", models.GameTypeCricket, 25, []int{25}, KindCheckout, 0},
		{"zero-value turn is normal", models.GameType301, 301, []int{0, 0, 0}, KindNormal, 301},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.gameType, tt.remaining, tt.darts)
			if got.Kind != tt.wantKind {
				t.Fatalf("Evaluate(%s, %d, %v) kind = %s, want %s (reason=%q)",
					tt.gameType, tt.remaining, tt.darts, got.Kind, tt.wantKind, got.Reason)
			}
			if got.Kind != KindBust && got.NewRemaining != tt.wantLeft {
				t.Fatalf("Evaluate(%s, %d, %v) remaining = %d, want %d",
					tt.gameType, tt.remaining, tt.darts, got.NewRemaining, tt.wantLeft)
			}
			if got.Kind == KindBust && got.Reason == "" {
				t.Fatalf("bust outcome missing reason")
			}
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	darts := []int{60, 57, 24}
	first := Evaluate(models.GameType501, 420, darts)
	for i := 0; i < 100; i++ {
		if got := Evaluate(models.GameType501, 420, darts); got != first {
			t.Fatalf("Evaluate not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestEvaluateNeverIncreasesScore(t *testing.T) {
	// After any non-bust outcome the new remaining must sit in [0, remaining].
	for remaining := 0; remaining <= 180; remaining++ {
		for _, darts := range [][]int{{0}, {1, 2, 3}, {60, 60, 60}, {20, 20}, {50}} {
			got := Evaluate(models.GameType501, remaining, darts)
			if got.Kind == KindBust {
				continue
			}
			if got.NewRemaining < 0 || got.NewRemaining > remaining {
				t.Fatalf("remaining %d darts %v → %d escapes [0,%d]",
					remaining, darts, got.NewRemaining, remaining)
			}
		}
	}
}

func TestValidateDarts(t *testing.T) {
	tests := []struct {
		name    string
		darts   []int
		wantErr bool
	}{
		{"one dart", []int{20}, false},
		{"three darts", []int{60, 60, 60}, false},
		{"miss counts as zero", []int{0}, false},
		{"no darts", []int{}, true},
		{"four darts", []int{20, 20, 20, 20}, true},
		{"negative dart", []int{-5}, true},
		{"dart above treble-20", []int{61}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDarts(tt.darts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDarts(%v) error = %v, wantErr %v", tt.darts, err, tt.wantErr)
			}
		})
	}
}

func TestDoubleOut(t *testing.T) {
	for _, gt := range []string{models.GameType301, models.GameType501, models.GameType701} {
		if !DoubleOut(gt) {
			t.Errorf("DoubleOut(%s) = false, want true", gt)
		}
	}
	for _, gt := range []string{models.GameTypeCricket, models.GameTypePractice} {
		if DoubleOut(gt) {
			t.Errorf("DoubleOut(%s) = true, want false", gt)
		}
	}
}
