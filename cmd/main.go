package main

import (
	"flag"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/JJ-Intelligence/rewritable-ttt/pkg/comms"
	"github.com/JJ-Intelligence/rewritable-ttt/pkg/config"
	"github.com/JJ-Intelligence/rewritable-ttt/pkg/lobby"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", os.Getenv("CONFIG"), "Path to a yaml config, the defaults are used when empty")
	gameName   = flag.String("game", getEnvOrDefault("GAME", "rewritable"), "The game to start")
)

// getEnvOrDefault tries to get an Environment variable or returns a default
// if it doesn't exist
func getEnvOrDefault(key string, def string) string {
	env, ok := os.LookupEnv(key)
	if ok {
		return env
	}
	return def
}

// command is one line of input: a message sent on behalf of player "A" or "B"
// to the lobby with ID Lobby, or to the hot-seat lobby when Lobby is empty.
type command struct {
	Player   string      `json:"player"`
	Lobby    string      `json:"lobby,omitempty"`
	Type     string      `json:"type"`
	Contents interface{} `json:"contents"`
}

func newLogger(level string) (*zap.Logger, error) {
	if strings.EqualFold(level, "debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.ParseConfig(*configPath); err != nil {
			bootLog, _ := zap.NewProduction()
			bootLog.Fatal("Unable to load config", zap.String("path", *configPath), zap.Error(err))
		}
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log, cfg, *gameName, os.Stdin, os.Stdout); err != nil {
		log.Fatal("Hot-seat game failed", zap.Error(err))
	}
}

// run plays a hot-seat game: commands are read from r and every message either
// player receives is written to w. It returns once r is exhausted and every
// accepted command has been answered.
func run(log *zap.Logger, cfg *config.Config, gameName string, r io.Reader, w io.Writer) error {
	playerA := comms.NewStreamConnection(uuid.NewString(), r, w, cfg.RequestBuffer)
	playerB := comms.NewStreamConnection(uuid.NewString(), nil, nil, cfg.RequestBuffer)
	playerB.ShareWriter(playerA)
	players := map[string]*comms.ConnectionWrapper{
		"A": playerA, playerA.PlayerID: playerA,
		"B": playerB, playerB.PlayerID: playerB,
	}

	var pumps sync.WaitGroup
	for _, conn := range []*comms.ConnectionWrapper{playerA, playerB} {
		pumps.Add(1)
		go func(conn *comms.ConnectionWrapper) {
			defer pumps.Done()
			if err := conn.Pump(); err != nil {
				log.Error("Unable to write message", zap.String("playerID", conn.PlayerID), zap.Error(err))
			}
		}(conn)
	}
	stopPumps := func() {
		playerA.Close()
		playerB.Close()
		pumps.Wait()
	}

	l, err := lobby.NewLobby(log, playerA, cfg.Games, cfg.RequestBuffer)
	if err != nil {
		stopPumps()
		return errors.Wrap(err, "unable to create lobby")
	}
	lobbies := &lobby.LobbyStore{}
	lobbies.Put(l.LobbyID, l)
	defer func() {
		lobbies.Delete(l.LobbyID)
		l.Close()
		stopPumps()
	}()

	if err := l.Join(playerB); err != nil {
		return errors.Wrap(err, "unable to join lobby")
	}

	log.Info("Starting game", zap.String("game", gameName),
		zap.String("playerA", playerA.PlayerID), zap.String("playerB", playerB.PlayerID))
	send(l, playerA, comms.ToMessage(lobby.LobbyStartGameRequest{Game: gameName}))
	send(l, playerA, comms.Message{Type: "Game/StartGameRequest"})

	for {
		var cmd command
		err := playerA.ReadMessage(&cmd)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "unable to read command")
		}

		conn, ok := players[cmd.Player]
		if !ok {
			log.Warn("Unknown player", zap.String("player", cmd.Player))
			continue
		}
		dispatch(lobbies, l, conn, cmd)
	}
}

// dispatch routes one command. Joins are handled here since the lobby only
// sees requests from connections it already holds.
func dispatch(lobbies *lobby.LobbyStore, home *lobby.Lobby, conn *comms.ConnectionWrapper, cmd command) {
	lobbyID := cmd.Lobby
	if cmd.Type == "LobbyJoinRequest" {
		var contents lobby.LobbyJoinRequest
		if err := mapstructure.Decode(cmd.Contents, &contents); err != nil {
			conn.WriteChannel <- comms.ToMessage(comms.ErrorDecodingMessageResponse{})
			return
		}
		lobbyID = contents.LobbyID
	}

	l := home
	if lobbyID != "" {
		var ok bool
		if l, ok = lobbies.Get(lobbyID); !ok {
			conn.WriteChannel <- comms.ToMessage(lobby.LobbyDoesNotExistResponse{})
			return
		}
	}

	if cmd.Type == "LobbyJoinRequest" {
		if err := l.Join(conn); err != nil {
			conn.WriteChannel <- comms.ToMessage(comms.ErrorResponse{Reason: err.Error()})
		}
		return
	}
	send(l, conn, comms.Message{Type: cmd.Type, Contents: cmd.Contents})
}

func send(l *lobby.Lobby, conn *comms.ConnectionWrapper, message comms.Message) {
	err := l.Send(comms.Request{
		ConnChannel: conn.WriteChannel,
		PlayerID:    conn.PlayerID,
		Message:     message,
	})
	if err != nil {
		l.Log.Error("Unable to send request", zap.String("type", message.Type), zap.Error(err))
	}
}
