// Package scoring implements the pure turn-legality rules of the darts
// engine: bust detection, double-out checkouts, and dart validation.
// No state, no I/O.
package scoring

import (
	"fmt"

	"darts-league-system/models"
)

// Outcome kinds returned by Evaluate.
const (
	KindNormal   = "normal"
	KindBust     = "bust"
	KindCheckout = "checkout"
)

// Outcome is the result of evaluating one submitted turn against the
// submitting player's remaining score.
type Outcome struct {
	Kind         string
	NewRemaining int    // meaningful for normal (and 0 for checkout)
	Reason       string // set for busts
}

// ValidateDarts checks the raw dart list: 1–3 darts, each in [0,60].
func ValidateDarts(darts []int) error {
	if len(darts) < 1 || len(darts) > 3 {
		return fmt.Errorf("a turn records between 1 and 3 darts, got %d", len(darts))
	}
	for _, d := range darts {
		if d < 0 || d > models.MaxDartValue {
			return fmt.Errorf("dart value %d out of range [0,%d]", d, models.MaxDartValue)
		}
	}
	return nil
}

// TurnTotal sums the dart values of one turn.
func TurnTotal(darts []int) int {
	total := 0
	for _, d := range darts {
		total += d
	}
	return total
}

// DoubleOut reports whether the game type requires finishing on a double.
func DoubleOut(gameType string) bool {
	switch gameType {
	case models.GameType301, models.GameType501, models.GameType701:
		return true
	}
	return false
}

// isDouble reports whether a dart value can have been scored on a double
// segment: even and ≤40, or exactly 50 for the double bullseye.
func isDouble(value int) bool {
	if value == 50 {
		return true
	}
	return value > 0 && value <= 40 && value%2 == 0
}

// Evaluate applies the scoring rules of gameType to one turn. It is a pure
// function: same inputs always produce the same outcome. Darts are assumed
// to have passed ValidateDarts.
func Evaluate(gameType string, remaining int, darts []int) Outcome {
	total := TurnTotal(darts)
	newRemaining := remaining - total

	if newRemaining < 0 {
		return Outcome{Kind: KindBust, Reason: fmt.Sprintf("turn of %d exceeds remaining %d", total, remaining)}
	}

	if DoubleOut(gameType) && newRemaining == 1 {
		// 1 is unreachable with a finishing double
		return Outcome{Kind: KindBust, Reason: "remaining score of 1 cannot be checked out"}
	}

	if newRemaining == 0 {
		if DoubleOut(gameType) {
			last := darts[len(darts)-1]
			if !isDouble(last) {
				return Outcome{Kind: KindBust, Reason: fmt.Sprintf("checkout dart %d is not a double", last)}
			}
		}
		return Outcome{Kind: KindCheckout, NewRemaining: 0}
	}

	return Outcome{Kind: KindNormal, NewRemaining: newRemaining}
}
