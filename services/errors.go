package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Engine rejection reasons. Validation failures reject synchronously with no
// mutation; consistency conflicts are caught atomically at the storage layer
// and surfaced as retryable 409s. A bust is a domain outcome, not a system
// error, but is communicated the same way to keep the state machine simple.
var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrNotParticipant     = errors.New("not a participant")
	ErrMatchNotInProgress = errors.New("match not in progress")
	ErrMatchNotCompleted  = errors.New("match not completed")
	ErrMatchNotScheduled  = errors.New("match not awaiting acceptance")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidDarts       = errors.New("invalid darts")
	ErrBust               = errors.New("bust")
	ErrAlreadyResponded   = errors.New("already responded")
	ErrTurnConflict       = errors.New("turn submission conflict")
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotParticipant):
		return fiber.StatusForbidden
	case errors.Is(err, ErrAlreadyResponded), errors.Is(err, ErrTurnConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrMatchNotInProgress), errors.Is(err, ErrMatchNotCompleted),
		errors.Is(err, ErrMatchNotScheduled), errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrInvalidDarts), errors.Is(err, ErrBust):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// rejection writes the engine error as the standard JSON error envelope.
func rejection(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
