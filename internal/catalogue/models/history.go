// Package models defines catalogue service database entities.
package models

import "time"

// OrderHistory is a denormalized copy of an order, pushed in by the order
// service so the catalogue can serve history without cross-service reads.
type OrderHistory struct {
	ID              int64
	UserID          int64
	UserName        string
	UserEmail       string
	OrderNumber     string
	ShippingAddress string
	Status          string
	TotalAmount     float64
	OrderDate       time.Time
	RecordedAt      time.Time
	Items           []HistoryItem
}

type HistoryItem struct {
	ID          int64
	HistoryID   int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// UserProfile aggregates a user's purchasing activity.
type UserProfile struct {
	ID            int64
	UserID        int64
	Name          string
	Email         string
	TotalOrders   int64
	TotalSpent    float64
	LastOrderDate time.Time
}
