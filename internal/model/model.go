package model

import "time"

// Board is a persisted sortable list.
type Board struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type Item struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`

	// Rank orders items within a board (lexicographic).
	Rank  string `json:"rank"`
	Title string `json:"title"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Move records one applied position change. Moves feed the change stream and
// the `items history` command.
type Move struct {
	Seq       int64     `json:"seq"`
	ItemID    string    `json:"itemId"`
	FromBoard string    `json:"fromBoard"`
	ToBoard   string    `json:"toBoard"`
	Position  int       `json:"position"`
	Rank      string    `json:"rank"`
	RequestID string    `json:"requestId,omitempty"`
	At        time.Time `json:"at"`
}
