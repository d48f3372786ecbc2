package models

import "time"

// Committee represents a recruitment unit applicants can apply to join.
type Committee struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Responsibilities string    `json:"responsibilities"`
	IsOpen           bool      `json:"isOpen"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
