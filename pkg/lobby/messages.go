package lobby

// Lobby Player management

// LobbyJoinRequest asks to join the lobby with LobbyID. It is answered by the
// owner of the connections, who calls Join.
type LobbyJoinRequest struct {
	PlayerID string `json:"playerID"`
	LobbyID  string `json:"lobbyID"`
}

type PlayerJoinedEvent struct{}

// LobbyLeaveRequest removes the sender from the lobby. The lobby closes when
// the host leaves.
type LobbyLeaveRequest struct{}

type PlayerLeftEvent struct{}

type LobbyPlayerListBroadcast struct {
	LobbyID   string   `json:"lobbyID"`
	PlayerIDs []string `json:"playerIDs"`
}

// Starting a Game
type LobbyStartGameRequest struct {
	Game string `json:"game"`
}

type LobbyStartGameResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type LobbyStartGameBroadcast struct {
	Game string `json:"game"`
}

type LobbyClosedBroadcast struct{}

type LobbyDoesNotExistResponse struct{}
