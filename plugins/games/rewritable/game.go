// Package rewritable serves tic-tac-toe games with the no-repetition rule to
// lobby players. Each game owns its own History; the lobby serialises the
// requests that reach it.
package rewritable

import (
	"fmt"

	"github.com/JJ-Intelligence/rewritable-ttt/pkg/comms"
	"github.com/JJ-Intelligence/rewritable-ttt/pkg/game"
	"github.com/JJ-Intelligence/rewritable-ttt/pkg/game/tictactoe"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const NUM_PLAYERS = 2

// User-facing reasons for rejected requests.
const (
	ReasonInvalidPlay = "This is an invalid play. Choose another tile."
	ReasonNoHistory   = "There's no game history to undo."
	ReasonBadSquare   = "Choose a tile from 1 to 9."
	ReasonNotYourTurn = "Not your turn"
)

type State struct {
	Players []string // {PlayerA, PlayerB}
	History *tictactoe.History
}

// New returns a game service playing with the given rules. The forbidden
// positions may never be reached in any game it creates.
func New(name string, rules tictactoe.Rules, forbidden ...tictactoe.Position) game.GameService {
	return game.NewGame(
		name,
		func(players []string) (interface{}, error) {
			state, err := NewState(players, rules, forbidden...)
			if err != nil {
				return nil, err
			}
			return state, nil
		},
		HandleRequest,
	)
}

func NewState(players []string, rules tictactoe.Rules, forbidden ...tictactoe.Position) (*State, error) {
	if len(players) != NUM_PLAYERS {
		return nil, fmt.Errorf("invalid number of players, should be %d", NUM_PLAYERS)
	}
	if players[0] == players[1] {
		return nil, fmt.Errorf("player %s cannot play against themself", players[0])
	}

	return &State{
		Players: append([]string(nil), players...),
		History: tictactoe.NewHistory(rules, forbidden...),
	}, nil
}

// playerID returns the id of the player holding m, or "" for Empty.
func (s *State) playerID(m tictactoe.Mark) string {
	switch m {
	case tictactoe.PlayerA:
		return s.Players[0]
	case tictactoe.PlayerB:
		return s.Players[1]
	}
	return ""
}

func (s *State) markOf(playerID string) tictactoe.Mark {
	switch playerID {
	case s.Players[0]:
		return tictactoe.PlayerA
	case s.Players[1]:
		return tictactoe.PlayerB
	}
	return tictactoe.Empty
}

func (s *State) boardState(turn int, p tictactoe.Position) BoardState {
	cells := p.Cells()
	board := BoardState{
		Turn:           turn,
		Cells:          make([]string, len(cells)),
		ActingPlayerID: s.playerID(p.ActingPlayer()),
		WinnerID:       s.playerID(p.Winner()),
		Status:         tictactoe.Ongoing.String(),
	}
	for i, c := range cells {
		board.Cells[i] = c.String()
	}
	if sq, ok := p.LastMove(); ok {
		board.LastMove = int(sq)
	}
	switch {
	case turn == s.History.TurnsElapsed():
		board.Status = s.History.Status().String()
	case board.WinnerID != "":
		board.Status = tictactoe.Won.String()
	}
	return board
}

func (s *State) moves() []int {
	played := s.History.PositionsPlayed()
	moves := make([]int, len(played))
	for i, sq := range played {
		moves[i] = int(sq)
	}
	return moves
}

func (s *State) historyBroadcast() HistoryBroadcast {
	return HistoryBroadcast{
		Board: s.boardState(s.History.TurnsElapsed(), s.History.CurrentState()),
		Moves: s.moves(),
	}
}

// reason maps engine errors to the message shown to players.
func reason(err error) string {
	switch {
	case errors.Is(err, tictactoe.ErrIllegalAction):
		return ReasonInvalidPlay
	case errors.Is(err, tictactoe.ErrNoHistory):
		return ReasonNoHistory
	case errors.Is(err, tictactoe.ErrInvalidArgument):
		return ReasonBadSquare
	}
	return err.Error()
}

func HandleRequest(
	gameChan chan game.GameRequest,
	stateInterface interface{},
	player,
	messageType string,
	messageContents interface{},
) interface{} {
	// Decode state
	state := stateInterface.(*State)
	if state.markOf(player) == tictactoe.Empty {
		return comms.ErrorResponse{Reason: fmt.Sprintf("%s is not playing this game", player)}
	}

	// Handle the request
	switch messageType {
	case "StartGameRequest":
		gameChan <- game.GameRequest{
			Players: state.Players,
			Message: comms.ToMessage(PlayerSymbolsBroadcast{
				PlayerA: state.Players[0],
				PlayerB: state.Players[1],
			}),
		}
		state.broadcastNextTurn(gameChan)

	case "MakeMoveRequest":
		var contents MakeMoveRequest
		if err := mapstructure.Decode(messageContents, &contents); err != nil {
			return comms.ErrorDecodingMessageResponse{}
		}
		return state.makeMove(gameChan, player, contents)

	case "UndoRequest":
		if err := state.History.UndoOnce(); err != nil {
			return UndoResponse{Status: false, Reason: reason(err)}
		}
		state.broadcastHistory(gameChan, player, UndoResponse{Status: true})

	case "UndoUntilRequest":
		var contents UndoUntilRequest
		if err := mapstructure.Decode(messageContents, &contents); err != nil {
			return comms.ErrorDecodingMessageResponse{}
		}
		state.History.UndoUntil(contents.Turn)
		state.broadcastHistory(gameChan, player, UndoResponse{Status: true})

	case "ResetRequest":
		state.History.Reset()
		state.broadcastHistory(gameChan, player, ResetResponse{Status: true})
		state.broadcastNextTurn(gameChan)

	case "SyncStateRequest":
		var contents SyncStateRequest
		if err := mapstructure.Decode(messageContents, &contents); err != nil {
			return comms.ErrorDecodingMessageResponse{}
		}
		return state.syncState(contents)

	default:
		return comms.ErrorResponse{Reason: fmt.Sprintf("%s is an invalid tictactoe message type", messageType)}
	}

	return nil
}

func (s *State) makeMove(gameChan chan game.GameRequest, player string, contents MakeMoveRequest) interface{} {
	mark := s.markOf(player)
	if mark != s.History.ActingPlayer() {
		return comms.ErrorResponse{Reason: ReasonNotYourTurn}
	}
	if err := s.History.Play(tictactoe.Square(contents.Square), mark); err != nil {
		return MakeMoveResponse{Status: false, Reason: reason(err)}
	}

	// Inform players of the move
	gameChan <- game.GameRequest{
		Players: []string{player},
		Message: comms.ToMessage(MakeMoveResponse{Status: true}),
	}
	gameChan <- game.GameRequest{
		Players: s.Players,
		Message: comms.ToMessage(MakeMoveBroadcast{
			Square:   contents.Square,
			PlayerID: player,
			Turn:     s.History.TurnsElapsed(),
		}),
	}
	s.broadcastNextTurn(gameChan)
	return nil
}

// broadcastNextTurn announces the winner, a draw, or the player to act.
func (s *State) broadcastNextTurn(gameChan chan game.GameRequest) {
	var message comms.Message
	switch s.History.Status() {
	case tictactoe.Won:
		message = comms.ToMessage(WinnerBroadcast{PlayerID: s.playerID(s.History.Winner())})
	case tictactoe.Drawn:
		message = comms.ToMessage(DrawBroadcast{})
	default:
		message = comms.ToMessage(PlayerTurnBroadcast{PlayerID: s.playerID(s.History.ActingPlayer())})
	}
	gameChan <- game.GameRequest{Players: s.Players, Message: message}
}

func (s *State) broadcastHistory(gameChan chan game.GameRequest, player string, response interface{}) {
	gameChan <- game.GameRequest{
		Players: []string{player},
		Message: comms.ToMessage(response),
	}
	gameChan <- game.GameRequest{
		Players: s.Players,
		Message: comms.ToMessage(s.historyBroadcast()),
	}
}

func (s *State) syncState(contents SyncStateRequest) interface{} {
	turn := s.History.TurnsElapsed()
	if contents.Turn != nil {
		turn = *contents.Turn
	}
	p, err := s.History.PositionAt(turn)
	if err != nil {
		return comms.ErrorResponse{Reason: fmt.Sprintf("turn %d is not in 0..%d", turn, s.History.TurnsElapsed())}
	}

	legal := []int{}
	if turn == s.History.TurnsElapsed() {
		for _, sq := range s.History.LegalMoves() {
			legal = append(legal, int(sq))
		}
	}
	return SyncStateResponse{
		Board:        s.boardState(turn, p),
		Moves:        s.moves(),
		Turns:        s.History.TurnsElapsed(),
		LegalSquares: legal,
	}
}
