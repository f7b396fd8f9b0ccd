package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/gateway"
	"backend/internal/middleware"
	"backend/internal/models"
)

const resultPerPage = 4

type createProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock" binding:"min=0"`
	Images      []string `json:"images" binding:"required,min=1"`
}

type updateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Stock       *int      `json:"stock"`
	Images      *[]string `json:"images"`
}

// buildCatalogFilter translates the public listing query params (keyword
// search, category, price range) into a mongo filter.
func buildCatalogFilter(keyword, category, priceMin, priceMax string) bson.M {
	filter := bson.M{}

	if keyword = strings.TrimSpace(keyword); keyword != "" {
		filter["name"] = bson.M{"$regex": keyword, "$options": "i"}
	}
	if category = strings.TrimSpace(category); category != "" {
		filter["category"] = category
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(strings.TrimSpace(priceMin), 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(strings.TrimSpace(priceMax), 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	return filter
}

func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := int64(1)
		if raw := strings.TrimSpace(c.Query("page")); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 {
				respondError(c, http.StatusBadRequest, "invalid page")
				return
			}
			page = parsed
		}

		filter := buildCatalogFilter(
			c.Query("keyword"),
			c.Query("category"),
			c.Query("price[gte]"),
			c.Query("price[lte]"),
		)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		productCount, err := db.Collection("products").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		filteredCount, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * resultPerPage).
			SetLimit(resultPerPage).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":               true,
			"products":              products,
			"productCount":          productCount,
			"resultPerPage":         resultPerPage,
			"filteredProductsCount": filteredCount,
		})
	}
}

func GetAdminProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, bson.M{})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"products": products,
		})
	}
}

func GetProductDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
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
			"product": product,
		})
	}
}

func CreateProduct(db *mongo.Database, media gateway.MediaStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		images := make([]models.Asset, 0, len(req.Images))
		for _, payload := range req.Images {
			asset, err := media.UploadImage(ctx, "products", payload)
			if err != nil {
				log.Errorln("[PRODUCT] image upload failed:", err)
				respondError(c, http.StatusBadGateway, "image upload failed")
				return
			}
			images = append(images, asset)
		}

		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
			Category:    strings.TrimSpace(req.Category),
			Stock:       req.Stock,
			Images:      images,
			Reviews:     []models.Review{},
			User:        user.ID,
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Errorln("[PRODUCT] insert failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		product.ID = res.InsertedID.(primitive.ObjectID)

		log.Infoln("[PRODUCT] created:", product.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"product": product,
		})
	}
}

func UpdateProduct(db *mongo.Database, media gateway.MediaStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		var existing models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&existing); err != nil {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		updateSet := bson.M{}
		if req.Name != nil {
			updateSet["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondError(c, http.StatusBadRequest, "invalid price")
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.Category != nil {
			updateSet["category"] = strings.TrimSpace(*req.Category)
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondError(c, http.StatusBadRequest, "stock must be zero or greater")
				return
			}
			updateSet["stock"] = *req.Stock
		}

		// Replacing images releases every prior external asset first.
		if req.Images != nil && len(*req.Images) > 0 {
			for _, image := range existing.Images {
				if err := media.DeleteImage(ctx, image.PublicID); err != nil {
					log.Errorln("[PRODUCT] old image delete failed:", err)
				}
			}
			images := make([]models.Asset, 0, len(*req.Images))
			for _, payload := range *req.Images {
				asset, err := media.UploadImage(ctx, "products", payload)
				if err != nil {
					log.Errorln("[PRODUCT] image upload failed:", err)
					respondError(c, http.StatusBadGateway, "image upload failed")
					return
				}
				images = append(images, asset)
			}
			updateSet["images"] = images
		}

		if len(updateSet) == 0 {
			respondError(c, http.StatusBadRequest, "no fields to update")
			return
		}

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": updateSet})
		if err != nil {
			log.Errorln("[PRODUCT] update failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		var updated models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&updated); err != nil {
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"product": updated,
		})
	}
}

func DeleteProduct(db *mongo.Database, media gateway.MediaStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}

		// Release all external image assets before removing the document.
		for _, image := range product.Images {
			if err := media.DeleteImage(ctx, image.PublicID); err != nil {
				log.Errorln("[PRODUCT] image delete failed:", err)
			}
		}

		if _, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID}); err != nil {
			log.Errorln("[PRODUCT] delete failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product deleted.",
		})
	}
}
