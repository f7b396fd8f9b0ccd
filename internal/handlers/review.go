package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/middleware"
	"backend/internal/models"
)

type createReviewRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Rating    float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string  `json:"comment"`
}

func CreateProductReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		reviews := upsertReview(product.Reviews, models.Review{
			User:    user.ID,
			Name:    user.Name,
			Rating:  req.Rating,
			Comment: req.Comment,
		})

		// Existing reviews already satisfy the schema; persist reviews and
		// recomputed aggregates only.
		_, err = db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{
				"reviews":      reviews,
				"numOfReviews": len(reviews),
				"ratings":      averageRating(reviews),
			},
		})
		if err != nil {
			log.Errorln("[REVIEW] review save failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func GetProductReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Query("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"reviews": product.Reviews,
		})
	}
}

func DeleteProductReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Query("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		reviewID, err := primitive.ObjectIDFromHex(c.Query("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid review id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		reviews, removed := removeReviewByID(product.Reviews, reviewID)
		if !removed {
			respondError(c, http.StatusNotFound, "review not found")
			return
		}

		// Reviews, count and mean are written together so the aggregates
		// never drift from the list for this product document.
		_, err = db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{
				"reviews":      reviews,
				"numOfReviews": len(reviews),
				"ratings":      averageRating(reviews),
			},
		})
		if err != nil {
			log.Errorln("[REVIEW] review delete failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
