package lobby

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JJ-Intelligence/rewritable-ttt/pkg/comms"
	"github.com/JJ-Intelligence/rewritable-ttt/pkg/game"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"go.uber.org/zap"
)

var ErrLobbyClosed = errors.New("lobby is closed")

func IsValidPlayerID(playerID string) bool {
	_, err := uuid.Parse(playerID)
	return err == nil
}

type Lobby struct {
	Log     *zap.Logger
	LobbyID string
	// Host is the host's player ID
	Host string
	// Games are the games the host may start
	Games game.Registry

	// State of the current game, only touched by LobbyRequestHandler
	GameName        string
	GameState       interface{}
	GameRequestChan chan game.GameRequest
	gameHandlers    sync.WaitGroup

	// PlayerIDToConnStore stores a mapping of Player IDs to connections
	PlayerIDToConnStore map[string]*comms.ConnectionWrapper
	connMu              sync.RWMutex

	// RequestChannel stores a channel of incoming Requests
	RequestChannel chan comms.Request

	// sendMu guards closed so that no request is queued once done is closed
	sendMu    sync.RWMutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
}

// NewLobby creates a lobby hosted by host and starts its request handler.
func NewLobby(log *zap.Logger, host *comms.ConnectionWrapper, games game.Registry, buffer int) (*Lobby, error) {
	if !IsValidPlayerID(host.PlayerID) {
		return nil, fmt.Errorf("invalid host player ID %q", host.PlayerID)
	}

	id := uuid.NewString()
	l := &Lobby{
		Log:                 log.With(zap.String("lobbyID", id)),
		LobbyID:             id,
		Host:                host.PlayerID,
		Games:               games,
		PlayerIDToConnStore: map[string]*comms.ConnectionWrapper{},
		RequestChannel:      make(chan comms.Request, buffer),
		done:                make(chan struct{}),
		stopped:             make(chan struct{}),
	}
	go l.LobbyRequestHandler()

	l.Log.Info("Created lobby", zap.String("host", host.PlayerID))
	if err := l.Join(host); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// Join adds a player's connection to the lobby.
func (l *Lobby) Join(conn *comms.ConnectionWrapper) error {
	if !IsValidPlayerID(conn.PlayerID) {
		return fmt.Errorf("invalid player ID %q", conn.PlayerID)
	}

	l.connMu.Lock()
	if _, ok := l.PlayerIDToConnStore[conn.PlayerID]; ok {
		l.connMu.Unlock()
		return fmt.Errorf("player %s already joined lobby %s", conn.PlayerID, l.LobbyID)
	}
	l.PlayerIDToConnStore[conn.PlayerID] = conn
	l.connMu.Unlock()

	err := l.Send(comms.Request{
		ConnChannel: conn.WriteChannel,
		PlayerID:    conn.PlayerID,
		Message:     comms.ToMessage(PlayerJoinedEvent{}),
	})
	if err != nil {
		l.removePlayer(conn.PlayerID)
		return err
	}
	l.Log.Info("Player joined lobby", zap.String("playerID", conn.PlayerID))
	return nil
}

// Leave removes a player from the lobby. The lobby closes when the host leaves.
func (l *Lobby) Leave(playerID string) {
	conn, ok := l.removePlayer(playerID)
	if !ok {
		return
	}

	l.Log.Info("Player left lobby", zap.String("playerID", playerID))
	if playerID == l.Host {
		l.Close()
		return
	}
	_ = l.Send(comms.Request{
		ConnChannel: conn.WriteChannel,
		PlayerID:    playerID,
		Message:     comms.ToMessage(PlayerLeftEvent{}),
	})
}

func (l *Lobby) removePlayer(playerID string) (*comms.ConnectionWrapper, bool) {
	l.connMu.Lock()
	defer l.connMu.Unlock()
	conn, ok := l.PlayerIDToConnStore[playerID]
	delete(l.PlayerIDToConnStore, playerID)
	return conn, ok
}

// Send queues a request for the lobby's handler. Every request it accepts is
// handled, even when the lobby is closed afterwards.
func (l *Lobby) Send(req comms.Request) error {
	l.sendMu.RLock()
	defer l.sendMu.RUnlock()
	if l.closed {
		return ErrLobbyClosed
	}
	l.RequestChannel <- req
	return nil
}

// Close stops the lobby once the queued requests are handled, and tells the
// remaining players. It waits for the request handlers to finish.
func (l *Lobby) Close() {
	l.shutdown()
	<-l.stopped
}

func (l *Lobby) shutdown() {
	l.closeOnce.Do(func() {
		l.sendMu.Lock()
		l.closed = true
		close(l.done)
		l.sendMu.Unlock()
	})
}

func (l *Lobby) LobbyRequestHandler() {
	defer close(l.stopped)
	for {
		select {
		case <-l.done:
			l.drainRequests()
			if l.GameRequestChan != nil {
				close(l.GameRequestChan)
			}
			l.gameHandlers.Wait()
			l.broadcastMessageToLobby(LobbyClosedBroadcast{})
			l.Log.Info("Closed lobby")
			return
		case req := <-l.RequestChannel:
			l.handleRequest(req)
		}
	}
}

// drainRequests handles whatever was queued before the lobby closed.
func (l *Lobby) drainRequests() {
	for {
		select {
		case req := <-l.RequestChannel:
			l.handleRequest(req)
		default:
			return
		}
	}
}

func (l *Lobby) handleRequest(req comms.Request) {
	switch req.Message.Type {
	case "PlayerJoinedEvent", "PlayerLeftEvent":
		// Player list changed
		l.broadcastPlayerList()

	case "LobbyLeaveRequest":
		if _, ok := l.removePlayer(req.PlayerID); !ok {
			req.Error("Player is not in the lobby", nil)
			return
		}
		l.Log.Info("Player left lobby", zap.String("playerID", req.PlayerID))
		if req.PlayerID == l.Host {
			// Close would wait on this goroutine
			go l.shutdown()
			return
		}
		l.broadcastPlayerList()

	case "LobbyStartGameRequest":
		// Host starts a Game
		var contents LobbyStartGameRequest
		err := mapstructure.Decode(req.Message.Contents, &contents)
		if err != nil {
			req.Error("Unable to parse LobbyStartGameRequest", err)
			return
		}

		if req.PlayerID != l.Host {
			req.Error(fmt.Sprintf(
				"Only the host can start a game (player %s, host %s)",
				req.PlayerID,
				l.Host,
			), nil)
			return
		}

		gameService, ok := l.Games[contents.Game]
		if !ok {
			req.Error("Invalid game name", nil)
			return
		}

		state, err := gameService.NewState(l.getPlayersList())
		if err != nil {
			req.ConnChannel <- comms.ToMessage(LobbyStartGameResponse{
				Status: false,
				Reason: err.Error(),
			})
			return
		}

		// Save game state to Lobby, replacing any previous game
		if l.GameRequestChan != nil {
			close(l.GameRequestChan)
		}
		l.GameName = contents.Game
		l.GameState = state
		l.GameRequestChan = make(chan game.GameRequest)

		// Run a handler to handle requests from the GameService
		l.gameHandlers.Add(1)
		go func(gameRequestChan chan game.GameRequest) {
			defer l.gameHandlers.Done()
			l.GameRequestHandler(gameRequestChan)
		}(l.GameRequestChan)

		// Tell players that the game has started
		req.ConnChannel <- comms.ToMessage(LobbyStartGameResponse{
			Status: true,
		})
		l.broadcastMessageToLobby(
			LobbyStartGameBroadcast{Game: l.GameName})
		l.Log.Info("Started new game", zap.String("game", l.GameName))

	default:
		// Route non-lobby-related messages
		typeComponents := strings.Split(req.Message.Type, "/")

		switch typeComponents[0] {
		case "Game":
			if len(typeComponents) != 2 {
				req.Error(fmt.Sprintf(
					"%s is an invalid Game message type, it should be of the format "+
						"'Game/<game-message-type>'",
					req.Message.Type,
				), nil)
			} else if l.GameState == nil {
				req.Error("Must set LobbyStartGameRequest first", nil)
			} else {
				l.Log.Debug("Routing game request",
					zap.String("playerID", req.PlayerID),
					zap.String("type", typeComponents[1]))
				errMessage := l.Games[l.GameName].HandleRequest(
					l.GameRequestChan, l.GameState, req.PlayerID,
					typeComponents[1], req.Message.Contents)
				if errMessage != nil {
					// Named like the game's broadcasts of the same type
					message := comms.ToMessage(errMessage)
					message.Type = "Game/" + message.Type
					req.ConnChannel <- message
				}
			}

		default:
			req.Error(
				fmt.Sprintf("%s is an invalid message type", req.Message.Type), nil)
		}
	}
}

func (l *Lobby) broadcastPlayerList() {
	l.broadcastMessageToLobby(LobbyPlayerListBroadcast{
		LobbyID:   l.LobbyID,
		PlayerIDs: l.getPlayersList(),
	})
}

func (l *Lobby) broadcastMessageToLobby(contents interface{}) {
	l.connMu.RLock()
	defer l.connMu.RUnlock()
	for _, conn := range l.PlayerIDToConnStore {
		conn.WriteChannel <- comms.ToMessage(contents)
	}
}

func (l *Lobby) broadcastMessageToPlayers(message comms.Message, players []string) {
	l.connMu.RLock()
	defer l.connMu.RUnlock()
	for _, player := range players {
		if conn, ok := l.PlayerIDToConnStore[player]; ok {
			conn.WriteChannel <- message
		} else {
			l.Log.Warn("Dropping game message for absent player",
				zap.String("playerID", player),
				zap.String("type", message.Type))
		}
	}
}

// getPlayersList returns the host followed by the other players in ID order.
func (l *Lobby) getPlayersList() []string {
	l.connMu.RLock()
	defer l.connMu.RUnlock()

	players := make([]string, 0, len(l.PlayerIDToConnStore))
	for player := range l.PlayerIDToConnStore {
		if player != l.Host {
			players = append(players, player)
		}
	}
	sort.Strings(players)
	if _, ok := l.PlayerIDToConnStore[l.Host]; ok {
		players = append([]string{l.Host}, players...)
	}
	return players
}

// Reads in requests from games and sends them to players
func (l *Lobby) GameRequestHandler(gameRequestChan chan game.GameRequest) {
	for req := range gameRequestChan {
		l.broadcastMessageToPlayers(
			comms.Message{
				Type:     "Game/" + req.Message.Type,
				Contents: req.Message.Contents,
			},
			req.Players,
		)
	}
}

// LobbyStoreMap stores Lobby IDs mapped to Lobby structs
type LobbyStore struct {
	// We're using a sync.Map which is optimised for few writes but lots of reads
	store sync.Map
}

func (s *LobbyStore) Put(key string, value *Lobby) {
	s.store.Store(key, value)
}

func (s *LobbyStore) Get(key string) (*Lobby, bool) {
	if value, ok := s.store.Load(key); ok {
		return value.(*Lobby), true
	}
	return nil, false
}

func (s *LobbyStore) Delete(key string) {
	s.store.Delete(key)
}

func (s *LobbyStore) Len() int {
	n := 0
	s.store.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
