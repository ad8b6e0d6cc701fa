package tictactoe

import "github.com/pkg/errors"

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Empty has no opponent and maps to itself.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// IsPlayer reports whether m is one of the two player marks.
func (m Mark) IsPlayer() bool {
	return m == PlayerA || m == PlayerB
}

func (m Mark) String() string {
	switch m {
	case Empty:
		return "."
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return "?"
	}
}

// ParseMark is the inverse of Mark.String. "-" and " " are also read as Empty.
func ParseMark(s string) (Mark, error) {
	switch s {
	case ".", "-", " ":
		return Empty, nil
	case "A", "a":
		return PlayerA, nil
	case "B", "b":
		return PlayerB, nil
	}
	return Empty, errors.Wrapf(ErrInvalidArgument, "unknown mark %q", s)
}

// Square is a cell index from 1 to 9 in row-major order.
type Square int

const NumSquares = 9

// Valid reports whether sq lies on the board.
func (sq Square) Valid() bool {
	return sq >= 1 && sq <= NumSquares
}

func (sq Square) Row() int { return int(sq-1) / 3 }
func (sq Square) Col() int { return int(sq-1) % 3 }

func (sq Square) index() int { return int(sq) - 1 }

func checkSquare(sq Square) error {
	if !sq.Valid() {
		return errors.Wrapf(ErrInvalidArgument, "square %d is not in 1..%d", sq, NumSquares)
	}
	return nil
}
