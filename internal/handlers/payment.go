package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"backend/internal/gateway"
)

type processPaymentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// ProcessPayment creates a payment intent upstream and hands the client
// secret back to the frontend.
func ProcessPayment(payments gateway.PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req processPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		clientSecret, err := payments.CreateIntent(ctx, req.Amount, "inr")
		if err != nil {
			log.Errorln("[PAYMENT] intent creation failed:", err)
			respondError(c, http.StatusBadGateway, "payment processing failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"client_secret": clientSecret,
		})
	}
}

func SendStripeAPIKey(publishableKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"stripeApiKey": publishableKey,
		})
	}
}
