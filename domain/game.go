package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
)

// Coordinates address a board cell in storage form: X is the row, Y the column.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Position describes one tile's animation from the previous board to the current one.
type Position struct {
	IsMerged      bool        `json:"isMerged"`
	Value         int         `json:"value"`
	InitialCoords Coordinates `json:"initialCoords"`
	FinalCoords   Coordinates `json:"finalCoords"`
}

// GameState is the canonical stored board. It is replaced wholesale on every save.
type GameState struct {
	PrevMatrix    [][]int       `json:"prevMatrix"`
	Matrix        [][]int       `json:"matrix"`
	MaxScore      int           `json:"maxScore"`
	CurrScore     int           `json:"currScore"`
	BestScore     int           `json:"bestScore"`
	Moves         int           `json:"moves"`
	MaxTile       int           `json:"max_tile"`
	GameStatus    string        `json:"gameStatus"`
	Rows          int           `json:"rows"`
	Columns       int           `json:"columns"`
	Undo          bool          `json:"undo"`
	NewTileCoords []Coordinates `json:"newTileCoords"`
	PositionsArr  []Position    `json:"positionsArr"`
}

func (g GameState) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GameState) Scan(value interface{}) error {
	return scanJSON(value, g)
}

// ClientCoords is the client's cell shape inside positionsArr.
type ClientCoords struct {
	Row    *int `json:"row" validate:"required"`
	Column *int `json:"column" validate:"required"`
}

type ClientPosition struct {
	IsMerged      *bool         `json:"isMerged" validate:"required"`
	Value         *int          `json:"value" validate:"required"`
	InitialCoords *ClientCoords `json:"initialCoords" validate:"required"`
	FinalCoords   *ClientCoords `json:"finalCoords" validate:"required"`
}

// SaveGameRequest is the client wire payload of POST /game/save. Field order is
// the order in which missing fields are reported.
type SaveGameRequest struct {
	PrevMatrix    [][]int          `json:"prevMatrix" validate:"required"`
	Matrix        [][]int          `json:"matrix" validate:"required"`
	MaxScore      *int             `json:"maxScore" validate:"required"`
	CurrScore     *int             `json:"currScore" validate:"required"`
	Status        *string          `json:"status" validate:"required"`
	Best          *int             `json:"best" validate:"required"`
	Rows          *int             `json:"rows" validate:"required"`
	Columns       *int             `json:"columns" validate:"required"`
	Undo          *bool            `json:"undo" validate:"required"`
	NewTileCoords [][]int          `json:"newTileCoords" validate:"required,dive,len=2"`
	PositionsArr  []ClientPosition `json:"positionsArr" validate:"required,dive"`
	Moves         *int             `json:"moves" validate:"required"`
	MaxTile       *int             `json:"max_tile" validate:"required"`
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	MaxTile  int    `json:"max_tile"`
}

type LeaderboardResponse struct {
	Users []LeaderboardEntry `json:"users"`
}

type GameRepository interface {
	SaveGameState(ctx context.Context, userID string, state *GameState) error
	GetGameState(ctx context.Context, userID string) (*GameState, error)
	ListLeaderboard(ctx context.Context, limit int) ([]User, error)
}
