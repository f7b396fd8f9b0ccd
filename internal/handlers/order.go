package handlers

import (
	"context"
	"errors"
	"fmt"
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

type newOrderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Image    string  `json:"image"`
	Product  string  `json:"product" binding:"required"`
}

type newOrderRequest struct {
	ShippingInfo  models.ShippingInfo   `json:"shippingInfo" binding:"required"`
	OrderItems    []newOrderItemRequest `json:"orderItems" binding:"required,min=1"`
	PaymentInfo   models.PaymentInfo    `json:"paymentInfo" binding:"required"`
	ItemsPrice    float64               `json:"itemsPrice"`
	TaxPrice      float64               `json:"taxPrice"`
	ShippingPrice float64               `json:"shippingPrice"`
	TotalPrice    float64               `json:"totalPrice" binding:"required,gt=0"`
}

type updateOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Requested int
}

func (e outOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID.Hex())
}

// buildOrderItems validates the line-item product ids and snapshots them.
func buildOrderItems(items []newOrderItemRequest) ([]models.OrderItem, error) {
	built := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, errors.New("invalid product id")
		}
		built = append(built, models.OrderItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
			Product:  productID,
		})
	}
	return built, nil
}

// NewOrder creates the order in Processing with paidAt set to now. Stock is
// adjusted at shipment time, not order time.
func NewOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}

		var req newOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items, err := buildOrderItems(req.OrderItems)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now()
		order := models.Order{
			ShippingInfo:  req.ShippingInfo,
			OrderItems:    items,
			User:          user.ID,
			PaymentInfo:   req.PaymentInfo,
			PaidAt:        now,
			ItemsPrice:    req.ItemsPrice,
			TaxPrice:      req.TaxPrice,
			ShippingPrice: req.ShippingPrice,
			TotalPrice:    req.TotalPrice,
			Status:        models.StatusProcessing,
			CreatedAt:     now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Errorln("[ORDER] insert failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		order.ID = res.InsertedID.(primitive.ObjectID)

		log.Infoln("[ORDER] created for user:", user.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"order":   order,
		})
	}
}

func GetSingleOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondError(c, http.StatusNotFound, "Order not found.")
			return
		}

		// Enrich with the owning user's contact details.
		var owner struct {
			Name  string `bson:"name" json:"name"`
			Email string `bson:"email" json:"email"`
		}
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.User}).Decode(&owner); err != nil && err != mongo.ErrNoDocuments {
			log.Errorln("[ORDER] owner lookup failed:", err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   order,
			"user":    owner,
		})
	}
}

func MyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"user": user.ID})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  orders,
		})
	}
}

func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		var totalAmount float64
		for _, order := range orders {
			totalAmount += order.TotalPrice
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"totalAmount": totalAmount,
			"orders":      orders,
		})
	}
}

// UpdateOrder applies a fulfillment transition. The shipment stock decrement
// and the status write happen inside one mongo transaction so a concurrent
// transition or a mid-loop failure cannot leave partial stock adjustment.
func UpdateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		next, ok := models.ParseOrderStatus(req.Status)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			respondError(c, http.StatusNotFound, "Order not found.")
			return
		}

		if order.Status.Terminal() {
			respondError(c, http.StatusBadRequest, "You have already delivered this order.")
			return
		}

		if !order.Status.CanTransition(next) {
			respondError(c, http.StatusBadRequest,
				fmt.Sprintf("cannot transition order from %s to %s", order.Status, next))
			return
		}

		update := bson.M{"orderStatus": next}
		if next == models.StatusDelivered {
			update["deliveredAt"] = time.Now()
		}

		session, err := db.Client().StartSession()
		if err != nil {
			log.Errorln("[ORDER] session start failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			if next == models.StatusShipped {
				for _, item := range order.OrderItems {
					// The stock guard keeps fulfillment from driving any
					// product's stock negative.
					res, err := db.Collection("products").UpdateOne(sessCtx,
						bson.M{
							"_id":   item.Product,
							"stock": bson.M{"$gte": item.Quantity},
						},
						bson.M{"$inc": bson.M{"stock": -item.Quantity}},
					)
					if err != nil {
						return nil, err
					}
					if res.MatchedCount == 0 {
						return nil, outOfStockError{ProductID: item.Product, Requested: item.Quantity}
					}
				}
			}

			_, err := db.Collection("orders").UpdateOne(sessCtx,
				bson.M{"_id": orderID, "orderStatus": order.Status},
				bson.M{"$set": update},
			)
			return nil, err
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				respondError(c, http.StatusBadRequest, stockErr.Error())
				return
			}
			log.Errorln("[ORDER] status update failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		log.Infoln("[ORDER] status updated:", orderID.Hex(), "->", next)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteOrder hard-deletes the record. Stock already decremented by a
// shipment is never reversed.
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			log.Errorln("[ORDER] delete failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, "Order not found.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
