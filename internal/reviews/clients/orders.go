// Package clients holds HTTP clients the review service uses to talk to
// other services.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// OrdersClient asks the order service whether a user may review a product.
type OrdersClient struct {
	baseURL string
	client  *http.Client
}

func NewOrdersClient(baseURL string) *OrdersClient {
	return &OrdersClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// CanUserReview calls GET /api/orders/validate-review. Eligibility means
// the user has a delivered order containing the product.
func (c *OrdersClient) CanUserReview(ctx context.Context, userID, productID int64) (bool, error) {
	url := c.baseURL + "/api/orders/validate-review?userId=" + strconv.FormatInt(userID, 10) +
		"&productId=" + strconv.FormatInt(productID, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("eligibility check: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("eligibility check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("eligibility check: unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			Allowed bool `json:"allowed"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return false, fmt.Errorf("eligibility check: %w", err)
	}
	return envelope.Data.Allowed, nil
}
