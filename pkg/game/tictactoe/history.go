package tictactoe

import "github.com/pkg/errors"

// Rules selects the game variant.
type Rules struct {
	// Overwrite lets a move replace a mark already on the board.
	Overwrite bool
}

// Status is the coarse state of a game.
type Status int

const (
	Ongoing Status = iota
	Won
	Drawn
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	default:
		return "unknown"
	}
}

// History is the record of one game. It holds every position reached since
// the empty board and the squares played between them, and rejects any move
// whose layout was already reached. A History is not safe for concurrent use.
type History struct {
	rules  Rules
	states []Position
	moves  []Square

	// seen counts the layouts in states and seeds.
	seen  map[Key]int
	seeds []Position
}

// NewHistory starts a game on the empty board. The seed positions are added
// to the repetition table for the whole game; undo never removes them.
func NewHistory(rules Rules, seed ...Position) *History {
	h := &History{
		rules: rules,
		seeds: append([]Position(nil), seed...),
	}
	h.Reset()
	return h
}

// FromSquares replays squares from the empty board. The first rejected move
// aborts the whole construction.
func FromSquares(rules Rules, squares ...Square) (*History, error) {
	h := NewHistory(rules)
	for i, sq := range squares {
		if err := h.Play(sq, Empty); err != nil {
			return nil, errors.WithMessagef(err, "move %d", i+1)
		}
	}
	return h, nil
}

// Reset returns the game to the empty board, keeping rules and seeds.
func (h *History) Reset() {
	h.states = make([]Position, 1, NumSquares+1)
	h.states[0] = NewPosition()
	h.moves = make([]Square, 0, NumSquares)
	h.seen = make(map[Key]int, NumSquares+1+len(h.seeds))
	h.seen[h.states[0].Key()]++
	for _, p := range h.seeds {
		h.seen[p.Key()]++
	}
}

// Play marks sq for the acting player. Passing Empty as acting skips the
// turn check. On error the History is unchanged.
func (h *History) Play(sq Square, acting Mark) error {
	candidate, err := h.successor(sq, acting)
	if err != nil {
		return err
	}
	if h.seen[candidate.Key()] > 0 {
		return errors.Wrapf(ErrIllegalAction, "square %d repeats position %s", sq, candidate.Notation())
	}

	h.states = append(h.states, candidate)
	h.moves = append(h.moves, sq)
	h.seen[candidate.Key()]++
	return nil
}

func (h *History) successor(sq Square, acting Mark) (Position, error) {
	if h.rules.Overwrite {
		return h.CurrentState().Rewrite(sq, acting)
	}
	return h.CurrentState().Play(sq, acting)
}

// UndoOnce removes the last move. It fails with ErrNoHistory on the empty
// board.
func (h *History) UndoOnce() error {
	last := len(h.states) - 1
	if last == 0 {
		return ErrNoHistory
	}

	k := h.states[last].Key()
	if h.seen[k]--; h.seen[k] == 0 {
		delete(h.seen, k)
	}
	h.states = h.states[:last]
	h.moves = h.moves[:last-1]
	return nil
}

// UndoUntil undoes moves until turn moves remain. turn is reduced modulo the
// number of positions, so -1 names the current position and -2 the one
// before it.
func (h *History) UndoUntil(turn int) {
	n := len(h.states)
	turn %= n
	if turn < 0 {
		turn += n
	}
	for len(h.states)-1 > turn {
		// cannot fail: turn >= 0 keeps at least the initial state
		_ = h.UndoOnce()
	}
}

// CurrentState returns the latest position.
func (h *History) CurrentState() Position {
	return h.states[len(h.states)-1]
}

// PositionAt returns the position after turn moves.
func (h *History) PositionAt(turn int) (Position, error) {
	if turn < 0 || turn >= len(h.states) {
		return Position{}, errors.Wrapf(ErrInvalidArgument, "turn %d is not in 0..%d", turn, len(h.states)-1)
	}
	return h.states[turn], nil
}

// States returns a copy of every position reached, oldest first.
func (h *History) States() []Position {
	return append([]Position(nil), h.states...)
}

// PositionsPlayed returns a copy of the squares played, oldest first.
func (h *History) PositionsPlayed() []Square {
	return append([]Square(nil), h.moves...)
}

func (h *History) Rules() Rules       { return h.rules }
func (h *History) ActingPlayer() Mark { return h.CurrentState().ActingPlayer() }
func (h *History) Winner() Mark       { return h.CurrentState().Winner() }
func (h *History) TurnsElapsed() int  { return len(h.moves) }

// Seen reports whether p's layout is in the repetition table.
func (h *History) Seen(p Position) bool { return h.seen[p.Key()] > 0 }

// LegalMoves returns the squares the acting player may mark now.
func (h *History) LegalMoves() []Square {
	var legal []Square
	for sq := Square(1); sq <= NumSquares; sq++ {
		next, err := h.successor(sq, Empty)
		if err == nil && !h.Seen(next) {
			legal = append(legal, sq)
		}
	}
	return legal
}

// Status reports Won when a line is complete, Drawn when the acting player
// has no legal move, and Ongoing otherwise.
func (h *History) Status() Status {
	if h.Winner() != Empty {
		return Won
	}
	if len(h.LegalMoves()) == 0 {
		return Drawn
	}
	return Ongoing
}

// Equal reports whether two histories share the current layout, the length
// and the set of seen layouts, regardless of move order.
func (h *History) Equal(other *History) bool {
	if other == nil {
		return false
	}
	if len(h.states) != len(other.states) || !h.CurrentState().Equal(other.CurrentState()) {
		return false
	}
	if len(h.seen) != len(other.seen) {
		return false
	}
	for k := range h.seen {
		if other.seen[k] == 0 {
			return false
		}
	}
	return true
}
