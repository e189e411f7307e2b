package model

import "time"

// Bio is one saved prompt/result pair produced by the generation endpoint.
// Every bio belongs to exactly one user; the repository enforces the
// ownership filter on every read, update, and delete.
type Bio struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
