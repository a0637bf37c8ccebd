package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
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
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.POST("/products", h.CreateProduct)
}

type createProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type listProductsResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, err)
		return
	}

	p, err := h.svc.CreateProduct(c.Request.Context(), req.Name, req.Description, req.Price, req.ImageURL)
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusCreated, toResponse(p))
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}
	c.JSON(http.StatusOK, toResponse(p))
}

func (h *Handler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, next, err := h.svc.ListProducts(c.Request.Context(), c.Query("q"), limit, c.Query("cursor"))
	if err != nil {
		httpx.WriteError(c, mapErr(err))
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	c.JSON(http.StatusOK, listProductsResponse{Products: out, NextCursor: next})
}

func toResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, "product not found")
	}
	return status.Error(codes.Internal, "internal error")
}
