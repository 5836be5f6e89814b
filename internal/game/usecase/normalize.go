package usecase

import (
	"game2048_backend/domain"
)

// ValidateShape checks that both boards are rows x columns. Presence of every
// field has already been checked when the payload was decoded.
func ValidateShape(req *domain.SaveGameRequest) error {
	rows, columns := *req.Rows, *req.Columns

	for _, board := range []struct {
		name   string
		matrix [][]int
	}{
		{"prevMatrix", req.PrevMatrix},
		{"matrix", req.Matrix},
	} {
		if len(board.matrix) != rows {
			return &domain.FieldError{Field: board.name}
		}
		for _, row := range board.matrix {
			if len(row) != columns {
				return &domain.FieldError{Field: board.name}
			}
		}
	}
	return nil
}

// NormalizeGameState converts the client payload into the stored shape:
// {row, column} becomes {x, y} and [x, y] tile pairs become {x, y}.
// Values are carried over as sent.
func NormalizeGameState(req *domain.SaveGameRequest) *domain.GameState {
	tiles := make([]domain.Coordinates, 0, len(req.NewTileCoords))
	for _, pair := range req.NewTileCoords {
		tiles = append(tiles, domain.Coordinates{X: pair[0], Y: pair[1]})
	}

	positions := make([]domain.Position, 0, len(req.PositionsArr))
	for _, p := range req.PositionsArr {
		positions = append(positions, domain.Position{
			IsMerged:      *p.IsMerged,
			Value:         *p.Value,
			InitialCoords: toCoordinates(p.InitialCoords),
			FinalCoords:   toCoordinates(p.FinalCoords),
		})
	}

	return &domain.GameState{
		PrevMatrix:    req.PrevMatrix,
		Matrix:        req.Matrix,
		MaxScore:      *req.MaxScore,
		CurrScore:     *req.CurrScore,
		BestScore:     *req.Best,
		Moves:         *req.Moves,
		MaxTile:       *req.MaxTile,
		GameStatus:    *req.Status,
		Rows:          *req.Rows,
		Columns:       *req.Columns,
		Undo:          *req.Undo,
		NewTileCoords: tiles,
		PositionsArr:  positions,
	}
}

func toCoordinates(c *domain.ClientCoords) domain.Coordinates {
	return domain.Coordinates{X: *c.Row, Y: *c.Column}
}
