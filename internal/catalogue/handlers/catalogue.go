// Package handlers exposes the catalogue REST API under /api/catalogue.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/services"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

type CatalogueHandler struct {
	catalogue *services.CatalogueService
	logger    logging.Logger
}

func NewCatalogueHandler(catalogue *services.CatalogueService, logger logging.Logger) *CatalogueHandler {
	return &CatalogueHandler{catalogue: catalogue, logger: logger}
}

type historyItemRequest struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type recordOrderRequest struct {
	UserID          int64                `json:"userId"`
	UserName        string               `json:"userName"`
	UserEmail       string               `json:"userEmail"`
	OrderNumber     string               `json:"orderNumber"`
	ShippingAddress string               `json:"shippingAddress"`
	Status          string               `json:"status"`
	TotalAmount     float64              `json:"totalAmount"`
	OrderDate       time.Time            `json:"orderDate"`
	Items           []historyItemRequest `json:"items"`
}

type snapshotRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type historyItemData struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type historyData struct {
	ID              int64             `json:"id"`
	OrderNumber     string            `json:"orderNumber"`
	UserID          int64             `json:"userId"`
	Status          string            `json:"status"`
	TotalAmount     float64           `json:"totalAmount"`
	ShippingAddress string            `json:"shippingAddress"`
	OrderDate       time.Time         `json:"orderDate"`
	Items           []historyItemData `json:"items"`
}

type profileData struct {
	UserID        int64     `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	TotalOrders   int64     `json:"totalOrders"`
	TotalSpent    float64   `json:"totalSpent"`
	LastOrderDate time.Time `json:"lastOrderDate"`
}

func toHistoryData(h *models.OrderHistory) historyData {
	data := historyData{
		ID:              h.ID,
		OrderNumber:     h.OrderNumber,
		UserID:          h.UserID,
		Status:          h.Status,
		TotalAmount:     h.TotalAmount,
		ShippingAddress: h.ShippingAddress,
		OrderDate:       h.OrderDate,
		Items:           []historyItemData{},
	}
	for _, item := range h.Items {
		data.Items = append(data.Items, historyItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return data
}

func toProfileData(p *models.UserProfile) profileData {
	return profileData{
		UserID:        p.UserID,
		Name:          p.Name,
		Email:         p.Email,
		TotalOrders:   p.TotalOrders,
		TotalSpent:    p.TotalSpent,
		LastOrderDate: p.LastOrderDate,
	}
}

// RecordOrder handles POST /api/catalogue/orders. Called by the order
// service after checkout.
func (h *CatalogueHandler) RecordOrder(c *gin.Context) {
	var req recordOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrderNumber == "" {
		httpx.Fail(c, http.StatusBadRequest, "Order number is required")
		return
	}

	input := services.HistoryInput{
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		OrderNumber:     req.OrderNumber,
		ShippingAddress: req.ShippingAddress,
		Status:          req.Status,
		TotalAmount:     req.TotalAmount,
		OrderDate:       req.OrderDate,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.HistoryItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	record, err := h.catalogue.RecordOrder(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			httpx.Fail(c, http.StatusConflict, "Order already recorded")
			return
		}
		httpx.Fail(c, http.StatusInternalServerError, "Failed to record order")
		return
	}

	httpx.OK(c, http.StatusCreated, "Order recorded", toHistoryData(record))
}

// MyHistory handles GET /api/catalogue/my-history.
func (h *CatalogueHandler) MyHistory(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	records, err := h.catalogue.UserHistory(c.Request.Context(), identity.UserID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	data := make([]historyData, 0, len(records))
	for _, record := range records {
		data = append(data, toHistoryData(record))
	}
	httpx.OK(c, http.StatusOK, "History fetched", gin.H{"history": data, "count": len(data)})
}

// MySummary handles GET /api/catalogue/my-summary.
func (h *CatalogueHandler) MySummary(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	summary, err := h.catalogue.UserSummary(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httpx.Fail(c, http.StatusNotFound, "No profile found for user")
			return
		}
		httpx.Fail(c, http.StatusInternalServerError, "Failed to fetch summary")
		return
	}

	records := make([]historyData, 0, len(summary.History))
	for _, record := range summary.History {
		records = append(records, toHistoryData(record))
	}
	httpx.OK(c, http.StatusOK, "Summary fetched", gin.H{
		"profile":      toProfileData(summary.Profile),
		"orderHistory": records,
	})
}

// UpdateSnapshot handles PUT /api/catalogue/profile.
func (h *CatalogueHandler) UpdateSnapshot(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.catalogue.UpdateSnapshot(c.Request.Context(), identity.UserID, req.Name, req.Email)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	httpx.OK(c, http.StatusOK, "Profile updated", toProfileData(profile))
}

// OrderByNumber handles GET /api/catalogue/orders/:orderNumber.
func (h *CatalogueHandler) OrderByNumber(c *gin.Context) {
	record, err := h.catalogue.OrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httpx.Fail(c, http.StatusNotFound, "Order not found")
			return
		}
		httpx.Fail(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	httpx.OK(c, http.StatusOK, "Order fetched", toHistoryData(record))
}
