// Package models defines review service database entities.
package models

import "time"

// Review is a product review. IDs are UUID strings minted by the service.
type Review struct {
	ID        string
	UserID    int64
	ProductID int64
	Rating    int
	Comment   string
	CreatedAt time.Time
}
