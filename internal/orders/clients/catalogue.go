// Package clients holds HTTP clients the order service uses to talk to
// other services.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OrderRecord is the history payload posted to the catalogue service after
// an order is created.
type OrderRecord struct {
	UserID          int64             `json:"userId"`
	UserName        string            `json:"userName"`
	UserEmail       string            `json:"userEmail"`
	OrderNumber     string            `json:"orderNumber"`
	ShippingAddress string            `json:"shippingAddress"`
	Status          string            `json:"status"`
	TotalAmount     float64           `json:"totalAmount"`
	OrderDate       time.Time         `json:"orderDate"`
	Items           []OrderRecordItem `json:"items"`
}

type OrderRecordItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// CatalogueClient posts order history to the catalogue service.
type CatalogueClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogueClient(baseURL string) *CatalogueClient {
	return &CatalogueClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// RecordOrder sends the record to POST /api/catalogue/orders. A 409 from
// the catalogue means the order number was already recorded and counts as
// success, so retries stay harmless.
func (c *CatalogueClient) RecordOrder(ctx context.Context, rec OrderRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("catalogue sync: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/catalogue/orders", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("catalogue sync: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalogue sync: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 || resp.StatusCode == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("catalogue sync: unexpected status %d", resp.StatusCode)
}
