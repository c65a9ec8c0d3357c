package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outfithaven/storefront-api/internal/dto"
	"github.com/outfithaven/storefront-api/internal/mailer"
)

type EmailHandler struct {
	dispatcher *mailer.Dispatcher
	adminEmail string
}

func NewEmailHandler(dispatcher *mailer.Dispatcher, adminEmail string) *EmailHandler {
	return &EmailHandler{dispatcher: dispatcher, adminEmail: adminEmail}
}

// SendOrderConfirmation sends the confirmation twice: a copy to the shop
// operator first, then the customer's copy. Each leg carries its own retry
// budget, and a failed leg never prevents the other from being attempted.
func (h *EmailHandler) SendOrderConfirmation(c *gin.Context) {
	var req dto.SendOrderEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := mailer.ConfirmationSubject(req.OrderDetails.OrderID, req.Subject)

	ctx := c.Request.Context()
	adminReceipt, adminErr := h.dispatcher.SendOrderConfirmation(
		ctx, h.adminEmail, "[ADMIN COPY] "+subject, req.OrderDetails)
	customerReceipt, customerErr := h.dispatcher.SendOrderConfirmation(
		ctx, req.To, subject, req.OrderDetails)

	if adminErr != nil || customerErr != nil {
		if errors.Is(adminErr, mailer.ErrInvalidDetails) || errors.Is(customerErr, mailer.ErrInvalidDetails) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order details must include at least one item"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": describeFailedLegs(adminErr, customerErr)})
		return
	}

	c.JSON(http.StatusOK, dto.SendOrderEmailResponse{
		Customer: *customerReceipt,
		Admin:    *adminReceipt,
	})
}

func describeFailedLegs(adminErr, customerErr error) string {
	switch {
	case adminErr != nil && customerErr != nil:
		return fmt.Sprintf("failed to send admin and customer copies: %v; %v", adminErr, customerErr)
	case adminErr != nil:
		return fmt.Sprintf("failed to send admin copy: %v", adminErr)
	default:
		return fmt.Sprintf("failed to send customer copy: %v", customerErr)
	}
}
