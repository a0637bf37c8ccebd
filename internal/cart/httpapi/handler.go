package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
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

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/cart")
	g.GET("", h.GetCart)
	g.DELETE("", h.ClearCart)
	g.POST("/items", h.AddItem)
	g.PATCH("/items/:productId", h.UpdateItem)
	g.DELETE("/items/:productId", h.RemoveItem)
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartLineResponse struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type CartResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Items       []CartLineResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	TotalItems  int                `json:"totalItems"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, toResponse(cart))
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	cart, err := h.svc.AddItem(c.Request.Context(), auth.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, toResponse(cart))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	cart, err := h.svc.UpdateItem(c.Request.Context(), auth.UserID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, toResponse(cart))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	cart, err := h.svc.RemoveItem(c.Request.Context(), auth.UserID(c), c.Param("productId"))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, toResponse(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	existed, err := h.svc.ClearCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": existed})
}

func toResponse(cart domain.Cart) CartResponse {
	items := make([]CartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, CartLineResponse{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Price:      l.Price,
			Quantity:   l.Quantity,
			ImageURL:   l.ImageURL,
			TotalPrice: l.TotalPrice(),
		})
	}

	return CartResponse{
		ID:          cart.ID,
		UserID:      cart.UserID,
		Items:       items,
		TotalAmount: cart.TotalAmount,
		TotalItems:  cart.TotalItemCount,
		CreatedAt:   cart.CreatedAt,
		UpdatedAt:   cart.UpdatedAt,
	}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrProductNotFound):
		return status.Error(codes.InvalidArgument, "product not found")
	case errors.Is(err, app.ErrNotFound):
		return status.Error(codes.NotFound, "cart not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
