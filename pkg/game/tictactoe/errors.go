package tictactoe

import "github.com/pkg/errors"

// Errors returned by Position and History. Callers match them with errors.Is;
// the returned values carry extra context.
var (
	// ErrIllegalAction is returned for moves the rules forbid: the game is
	// decided, it is the other player's turn, the square is taken, or the
	// resulting layout already occurred.
	ErrIllegalAction = errors.New("illegal action")

	// ErrNoHistory is returned when undoing from the initial empty board.
	ErrNoHistory = errors.New("no history to undo")

	// ErrInvalidArgument is returned for squares, marks or indexes outside
	// their domain.
	ErrInvalidArgument = errors.New("invalid argument")
)
