package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/order/app"
	"github.com/dwikikusuma/shoping-cart/internal/order/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/auth"
	"github.com/dwikikusuma/shoping-cart/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the read and status routes. Order creation lives with
// checkout.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/orders")
	g.GET("/my", h.ListMyOrders)
	g.GET("/:id", h.GetOrder)
	g.PATCH("/:id/status", h.UpdateStatus)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderLineResponse struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Items           []OrderLineResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	TotalItems      int                 `json:"totalItems"`
	ShippingAddress string              `json:"shippingAddress"`
	Notes           string              `json:"notes,omitempty"`
	Status          domain.Status       `json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.svc.ListOrdersForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"), auth.UserID(c))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, ToResponse(order))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, ToResponse(order))
}

func ToResponse(o domain.Order) OrderResponse {
	items := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderLineResponse{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Price:      l.Price,
			Quantity:   l.Quantity,
			ImageURL:   l.ImageURL,
			TotalPrice: l.TotalPrice(),
		})
	}

	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		TotalItems:      o.TotalItemCount,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrNotFound):
		return status.Error(codes.NotFound, "order not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
