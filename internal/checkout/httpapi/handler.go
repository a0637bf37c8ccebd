package httpapi

import (
	"errors"
	"net/http"

	"github.com/dwikikusuma/shoping-cart/internal/checkout/app"
	"github.com/dwikikusuma/shoping-cart/internal/checkout/domain"
	orderhttp "github.com/dwikikusuma/shoping-cart/internal/order/httpapi"
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
	r.POST("/orders", h.CreateOrder)
	r.GET("/checkout/quote", h.Quote)
}

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" binding:"required,min=10,max=500"`
	Notes           string `json:"notes" binding:"max=1000"`
}

type quoteLineResponse struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	SnapshotPrice decimal.Decimal `json:"snapshotPrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	PriceChanged  bool            `json:"priceChanged"`
	Available     bool            `json:"available"`
}

type quoteResponse struct {
	Lines        []quoteLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal     `json:"totalAmount"`
	TotalItems   int                 `json:"totalItems"`
	PriceChanged bool                `json:"priceChanged"`
	AllAvailable bool                `json:"allAvailable"`
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	order, err := h.svc.CreateOrderFromCart(c.Request.Context(), auth.UserID(c), req.ShippingAddress, req.Notes)
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusCreated, orderhttp.ToResponse(order))
}

func (h *Handler) Quote(c *gin.Context) {
	q, err := h.svc.Quote(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	lines := make([]quoteLineResponse, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, quoteLineResponse{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			SnapshotPrice: l.SnapshotPrice,
			CurrentPrice:  l.CurrentPrice,
			LineTotal:     l.LineTotal,
			PriceChanged:  l.PriceChanged,
			Available:     l.Available,
		})
	}
	return quoteResponse{
		Lines:        lines,
		TotalAmount:  q.TotalAmount,
		TotalItems:   q.TotalItemCount,
		PriceChanged: q.PriceChanged,
		AllAvailable: q.AllAvailable,
	}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrEmptyCart):
		return status.Error(codes.FailedPrecondition, "cart is empty")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
