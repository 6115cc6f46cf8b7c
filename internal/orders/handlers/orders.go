// Package handlers exposes the order service REST API under /api/orders.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/models"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/services"
)

type OrderHandler struct {
	orders *services.OrderService
	logger logging.Logger
}

func NewOrderHandler(orders *services.OrderService, logger logging.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

type cartItemRequest struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

type createOrderRequest struct {
	ShippingAddress string            `json:"shippingAddress"`
	UserName        string            `json:"userName"`
	UserEmail       string            `json:"userEmail"`
	Items           []cartItemRequest `json:"items"`
}

type orderItemData struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type orderData struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          int64           `json:"userId"`
	Status          string          `json:"status"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []orderItemData `json:"items"`
}

func toOrderData(o *models.Order) orderData {
	data := orderData{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		Items:           []orderItemData{},
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, orderItemData{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return data
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.CartItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Image:       item.Image,
		})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), identity.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorEmptyOrder):
			httpx.Fail(c, http.StatusBadRequest, "Order must contain at least one item")
		default:
			httpx.Fail(c, http.StatusInternalServerError, "Failed to create order")
		}
		return
	}

	httpx.OK(c, http.StatusCreated, "Order created successfully", toOrderData(order))
}

// MyOrders handles GET /api/orders/my-orders.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), identity.UserID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	data := make([]orderData, 0, len(orders))
	for _, o := range orders {
		data = append(data, toOrderData(o))
	}
	httpx.OK(c, http.StatusOK, "Orders fetched", gin.H{"orders": data, "count": len(data)})
}

// Get handles GET /api/orders/:orderId.
func (h *OrderHandler) Get(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), identity.UserID, orderID)
	if err != nil {
		h.failOrder(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "Order fetched", toOrderData(order))
}

// Cancel handles PUT /api/orders/:orderId/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	identity, orderID, ok := h.identityAndOrderID(c)
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), identity.UserID, orderID)
	if err != nil {
		if errors.Is(err, common.ErrorOrderNotCancellable) {
			httpx.Fail(c, http.StatusBadRequest, "Order can no longer be cancelled")
			return
		}
		h.failOrder(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "Order cancelled", toOrderData(order))
}

// UpdateStatus handles PUT /api/orders/:orderId/status?status=SHIPPED.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	status := models.OrderStatus(c.Query("status"))
	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, status)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidOrderStatus) {
			httpx.Fail(c, http.StatusBadRequest, "Unknown order status")
			return
		}
		h.failOrder(c, err)
		return
	}
	httpx.OK(c, http.StatusOK, "Order status updated", toOrderData(order))
}

// ValidateReview handles GET /api/orders/validate-review?userId=&productId=.
// Called service-to-service by the review service.
func (h *OrderHandler) ValidateReview(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid userId")
		return
	}
	productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid productId")
		return
	}

	allowed, err := h.orders.CanReview(c.Request.Context(), userID, productID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to check eligibility")
		return
	}
	httpx.OK(c, http.StatusOK, "Eligibility checked", gin.H{"allowed": allowed})
}

func (h *OrderHandler) identityAndOrderID(c *gin.Context) (httpx.Identity, int64, bool) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return httpx.Identity{}, 0, false
	}
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid order id")
		return httpx.Identity{}, 0, false
	}
	return identity, orderID, true
}

func (h *OrderHandler) failOrder(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		httpx.Fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, common.ErrorUnauthorized):
		httpx.Fail(c, http.StatusForbidden, "You don't have access to this order")
	default:
		httpx.Fail(c, http.StatusInternalServerError, "Order operation failed")
	}
}
