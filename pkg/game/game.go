package game

import (
	"fmt"

	"github.com/JJ-Intelligence/rewritable-ttt/pkg/comms"
)

// GameRequest is a message a game sends to some of its players.
type GameRequest struct {
	Players []string
	Message comms.Message
}

type newStateFunc func(players []string) (state interface{}, err error)

// handleRequestFunc processes one player request. Messages for players go
// through gameChan; a non-nil return value is sent back to the requester only.
type handleRequestFunc func(
	gameChan chan GameRequest, state interface{},
	player, messageType string, contents interface{}) interface{}

type GameService struct {
	Name          string
	NewState      newStateFunc
	HandleRequest handleRequestFunc
}

func NewGame(name string, newState newStateFunc, handleRequest handleRequestFunc) GameService {
	if newState == nil {
		panic(fmt.Sprintf("NewState function does not exist for game %s", name))
	}
	if handleRequest == nil {
		panic(fmt.Sprintf("HandleRequest function does not exist for game %s", name))
	}
	return GameService{
		Name:          name,
		NewState:      newState,
		HandleRequest: handleRequest,
	}
}

// Registry maps game names to their services.
type Registry map[string]GameService

// Register adds g under its name, replacing any previous game of that name.
func (r Registry) Register(g GameService) {
	r[g.Name] = g
}
