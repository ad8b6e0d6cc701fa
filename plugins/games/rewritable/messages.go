package rewritable

type PlayerSymbolsBroadcast struct {
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`
}

type PlayerTurnBroadcast struct {
	PlayerID string `json:"playerID"`
}

type MakeMoveRequest struct {
	Square int `json:"square"`
}

type MakeMoveResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type MakeMoveBroadcast struct {
	Square   int    `json:"square"`
	PlayerID string `json:"playerID"`
	Turn     int    `json:"turn"`
}

type WinnerBroadcast struct {
	PlayerID string `json:"playerID"`
}

// DrawBroadcast is sent when the player to act has no legal square left.
type DrawBroadcast struct{}

type UndoRequest struct{}

// UndoUntilRequest rewinds the game so that Turn moves remain. Negative turns
// count back from the current position, -1 being the current one.
type UndoUntilRequest struct {
	Turn int `json:"turn"`
}

type UndoResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type ResetRequest struct{}

type ResetResponse struct {
	Status bool `json:"status"`
}

// SyncStateRequest asks for the game; Turn selects an earlier board to view
// without rewinding.
type SyncStateRequest struct {
	Turn *int `json:"turn,omitempty"`
}

type SyncStateResponse struct {
	Board        BoardState `json:"board"`
	Moves        []int      `json:"moves"`
	Turns        int        `json:"turns"`
	LegalSquares []int      `json:"legalSquares"`
}

// HistoryBroadcast is sent to every player after the history was rewound or
// reset.
type HistoryBroadcast struct {
	Board BoardState `json:"board"`
	Moves []int      `json:"moves"`
}

// BoardState describes one position of the game.
type BoardState struct {
	Turn           int      `json:"turn"`
	Cells          []string `json:"cells"`
	ActingPlayerID string   `json:"actingPlayerID"`
	LastMove       int      `json:"lastMove,omitempty"`
	WinnerID       string   `json:"winnerID,omitempty"`
	Status         string   `json:"status"`
}
