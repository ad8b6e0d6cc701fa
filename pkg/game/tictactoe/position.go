// Package tictactoe implements the game state of rewritable tic-tac-toe: a
// 3x3 board where a move may never recreate a layout seen earlier in the
// game, together with an undoable move history.
package tictactoe

import (
	"strings"

	"github.com/pkg/errors"
)

// lines lists the winning lines in scan order: rows, columns, diagonals.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Key is a compact encoding of the cells of a Position. Two positions have
// the same Key exactly when their cells are equal.
type Key uint16

// Position is an immutable board layout plus the player to act next.
// The zero value is not usable; start from NewPosition.
type Position struct {
	cells    [NumSquares]Mark
	acting   Mark
	lastMove Square // 0 when no move produced this position
}

// NewPosition returns the empty board with PlayerA to act.
func NewPosition() Position {
	return Position{acting: PlayerA}
}

// PositionFromCells builds a position directly from its cells. The layout is
// not checked for reachability.
func PositionFromCells(cells [NumSquares]Mark, acting Mark) (Position, error) {
	for i, m := range cells {
		if m > PlayerB {
			return Position{}, errors.Wrapf(ErrInvalidArgument, "cell %d holds unknown mark %d", i+1, m)
		}
	}
	if !acting.IsPlayer() {
		return Position{}, errors.Wrapf(ErrInvalidArgument, "acting player must be A or B, got %v", acting)
	}
	return Position{cells: cells, acting: acting}, nil
}

// ParsePosition reads nine marks (".AB-"), ignoring whitespace. The acting
// player is PlayerA when both players hold the same number of cells and
// PlayerB otherwise.
func ParsePosition(s string) (Position, error) {
	var cells [NumSquares]Mark
	n := 0
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if n == NumSquares {
			return Position{}, errors.Wrapf(ErrInvalidArgument, "position %q has more than %d cells", s, NumSquares)
		}
		m, err := ParseMark(string(r))
		if err != nil {
			return Position{}, err
		}
		cells[n] = m
		n++
	}
	if n != NumSquares {
		return Position{}, errors.Wrapf(ErrInvalidArgument, "position %q has %d cells, want %d", s, n, NumSquares)
	}

	p := Position{cells: cells, acting: PlayerA}
	if p.Count(PlayerA) != p.Count(PlayerB) {
		p.acting = PlayerB
	}
	return p, nil
}

// Square returns the mark at sq. It panics if sq is out of range.
func (p Position) Square(sq Square) Mark {
	return p.cells[sq.index()]
}

// Cells returns a copy of the nine cells, index 0 being square 1.
func (p Position) Cells() [NumSquares]Mark {
	return p.cells
}

// ActingPlayer returns the player to move next.
func (p Position) ActingPlayer() Mark {
	return p.acting
}

// LastMove returns the square of the move that produced p, if any.
func (p Position) LastMove() (Square, bool) {
	return p.lastMove, p.lastMove != 0
}

// Count returns how many cells hold m.
func (p Position) Count(m Mark) int {
	n := 0
	for _, c := range p.cells {
		if c == m {
			n++
		}
	}
	return n
}

// Full reports whether no cell is empty.
func (p Position) Full() bool {
	return p.Count(Empty) == 0
}

// Winner returns the mark of the first complete line in scan order (rows,
// then columns, then diagonals), or Empty when no line is complete. A layout
// with complete lines for both players reports whichever comes first.
func (p Position) Winner() Mark {
	for _, ln := range lines {
		m := p.cells[ln[0]]
		if m != Empty && m == p.cells[ln[1]] && m == p.cells[ln[2]] {
			return m
		}
	}
	return Empty
}

// Play returns the position after the acting player marks sq. Passing Empty
// as acting skips the turn check. Occupied squares are rejected; repetition
// is the History's concern.
func (p Position) Play(sq Square, acting Mark) (Position, error) {
	return p.play(sq, acting, false)
}

// Rewrite is Play with overwriting allowed: sq may hold either mark.
func (p Position) Rewrite(sq Square, acting Mark) (Position, error) {
	return p.play(sq, acting, true)
}

func (p Position) play(sq Square, acting Mark, overwrite bool) (Position, error) {
	if err := checkSquare(sq); err != nil {
		return Position{}, err
	}
	if w := p.Winner(); w != Empty {
		return Position{}, errors.Wrapf(ErrIllegalAction, "game already won by %v", w)
	}
	if acting != Empty && acting != p.acting {
		return Position{}, errors.Wrapf(ErrIllegalAction, "%v cannot move, %v is to play", acting, p.acting)
	}
	if !overwrite && p.cells[sq.index()] != Empty {
		return Position{}, errors.Wrapf(ErrIllegalAction, "square %d is occupied", sq)
	}

	next := p
	next.cells[sq.index()] = p.acting
	next.acting = p.acting.Opponent()
	next.lastMove = sq
	return next, nil
}

// Copy returns an independent position equal to p.
func (p Position) Copy() Position {
	return p
}

// Equal compares cells only; the acting player and last move are ignored.
func (p Position) Equal(other Position) bool {
	return p.cells == other.cells
}

// Key encodes the cells in base 3.
func (p Position) Key() Key {
	var k Key
	for i := NumSquares - 1; i >= 0; i-- {
		k = k*3 + Key(p.cells[i])
	}
	return k
}

// Notation returns the nine cells on one line, e.g. "A.B......".
func (p Position) Notation() string {
	var sb strings.Builder
	for _, c := range p.cells {
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (p Position) String() string {
	n := p.Notation()
	return strings.Join([]string{n[:3], n[3:6], n[6:]}, "\n")
}
