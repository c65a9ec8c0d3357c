package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outfithaven/storefront-api/internal/dto"
	"github.com/outfithaven/storefront-api/internal/middleware"
	"github.com/outfithaven/storefront-api/internal/model"
	"github.com/outfithaven/storefront-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.svc.Add(c.Request.Context(), middleware.CurrentIdentity(c).UserID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) UpdateLine(c *gin.Context) {
	var req dto.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.CurrentIdentity(c).UserID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	var req dto.RemoveCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.svc.Remove(c.Request.Context(), middleware.CurrentIdentity(c).UserID, req.ProductID, req.Size)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.svc.Clear(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
	case errors.Is(err, service.ErrCartLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found in cart"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func toCartResponse(cart *model.Cart) dto.CartResponse {
	resp := dto.CartResponse{ID: cart.ID, UserID: cart.UserID, Lines: []dto.CartLineResponse{}}
	for _, line := range cart.Lines {
		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			ProductID: line.ProductID,
			Size:      line.Size,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
			Name:      line.Name,
			Price:     line.Price,
			Images:    line.Images,
			Sizes:     line.Sizes,
		})
	}
	return resp
}
