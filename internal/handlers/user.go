package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/auth"
	"backend/internal/gateway"
	"backend/internal/middleware"
	"backend/internal/models"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=4,max=25"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Avatar   string `json:"avatar" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type updatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type updateUserRoleRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role" binding:"required"`
}

// sendSessionToken issues the session credential, sets the http-only cookie
// and writes the success envelope. Mirrors the single canonical issue path.
func sendSessionToken(c *gin.Context, user models.User, status int, secret string, ttl time.Duration, cookies auth.CookiePolicy) {
	token, err := auth.IssueSessionToken(user.ID, secret, ttl)
	if err != nil {
		log.Errorln("[AUTH] token generation failed:", err)
		respondError(c, http.StatusInternalServerError, "token generation failed")
		return
	}

	auth.SetSessionCookie(c, token, ttl, cookies)
	c.JSON(status, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

func Register(db *mongo.Database, media gateway.MediaStorage, secret string, ttl time.Duration, cookies auth.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Errorln("[AUTH] register db error:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, "User already exists.")
			return
		}

		avatar, err := media.UploadImage(ctx, "avatars", req.Avatar)
		if err != nil {
			log.Errorln("[AUTH] avatar upload failed:", err)
			respondError(c, http.StatusBadGateway, "avatar upload failed")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Errorln("[AUTH] password hash failed:", err)
			respondError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Name:      name,
			Email:     email,
			Password:  hash,
			Avatar:    avatar,
			Role:      models.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			log.Errorln("[AUTH] register insert failed:", err)
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "User already exists.")
				return
			}
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		log.Infoln("[AUTH] user registered:", email)
		sendSessionToken(c, user, http.StatusCreated, secret, ttl, cookies)
	}
}

func Login(db *mongo.Database, secret string, ttl time.Duration, cookies auth.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// A missing user and a wrong password produce the same response so
		// account existence never leaks.
		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err != mongo.ErrNoDocuments {
				log.Errorln("[AUTH] login lookup failed:", err)
				respondError(c, http.StatusInternalServerError, "db error")
				return
			}
			respondError(c, http.StatusUnauthorized, "Invalid email or password.")
			return
		}

		if !auth.CheckPassword(user.Password, req.Password) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password.")
			return
		}

		log.Infoln("[AUTH] login succeeded:", email)
		sendSessionToken(c, user, http.StatusOK, secret, ttl, cookies)
	}
}

func Logout(cookies auth.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.ClearSessionCookie(c, cookies)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User Logged out.",
		})
	}
}

// GetUser returns the authenticated user attached by the access guard.
func GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}
		token, _ := c.Get(middleware.ContextTokenKey)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    user,
			"token":   token,
		})
	}
}

func ForgotPassword(db *mongo.Database, mailer gateway.Mailer, frontendURL string, resetTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, "User not found.")
			return
		}

		plain, hash, err := auth.NewResetToken()
		if err != nil {
			log.Errorln("[AUTH] reset token generation failed:", err)
			respondError(c, http.StatusInternalServerError, "reset token generation failed")
			return
		}

		expire := time.Now().Add(resetTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"resetPasswordToken":  hash,
				"resetPasswordExpire": expire,
			},
		})
		if err != nil {
			log.Errorln("[AUTH] reset token store failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		resetURL := fmt.Sprintf("%s/password/reset/%s", strings.TrimSuffix(frontendURL, "/"), plain)
		message := fmt.Sprintf(
			"Your password reset token is :- \n %s \n If you have not requested this email then, please ignore it.",
			resetURL,
		)

		if err := mailer.Send(ctx, user.Email, "E-commerce Password Recovery", message); err != nil {
			// A failed delivery must not leave a dangling valid reset token.
			_, clearErr := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
				"$unset": bson.M{
					"resetPasswordToken":  "",
					"resetPasswordExpire": "",
				},
			})
			if clearErr != nil {
				log.Errorln("[AUTH] reset token rollback failed:", clearErr)
			}
			log.Errorln("[AUTH] reset email send failed:", err)
			respondError(c, http.StatusBadRequest, "email could not be sent")
			return
		}

		log.Infoln("[AUTH] reset email sent:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Email send to %s successfully.", user.Email),
		})
	}
}

func ResetPassword(db *mongo.Database, secret string, ttl time.Duration, cookies auth.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		hash := auth.HashResetToken(strings.TrimSpace(c.Param("token")))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{
			"resetPasswordToken":  hash,
			"resetPasswordExpire": bson.M{"$gt": time.Now()},
		}).Decode(&user)
		if err != nil {
			respondError(c, http.StatusNotFound, "Reset Password Token is invalid or has been expired.")
			return
		}

		if req.Password != req.ConfirmPassword {
			respondError(c, http.StatusBadRequest, "Password does not match.")
			return
		}

		newHash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Errorln("[AUTH] password hash failed:", err)
			respondError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"password":  newHash,
				"updatedAt": time.Now(),
			},
			"$unset": bson.M{
				"resetPasswordToken":  "",
				"resetPasswordExpire": "",
			},
		})
		if err != nil {
			log.Errorln("[AUTH] password reset update failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		user.Password = newHash
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil

		log.Infoln("[AUTH] password reset:", user.Email)
		sendSessionToken(c, user, http.StatusOK, secret, ttl, cookies)
	}
}

func UpdatePassword(db *mongo.Database, secret string, ttl time.Duration, cookies auth.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}

		var req updatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !auth.CheckPassword(user.Password, req.OldPassword) {
			respondError(c, http.StatusUnauthorized, "Old password is incorrect.")
			return
		}

		if req.NewPassword != req.ConfirmPassword {
			respondError(c, http.StatusBadRequest, "Password does not match.")
			return
		}

		newHash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			log.Errorln("[AUTH] password hash failed:", err)
			respondError(c, http.StatusInternalServerError, "password hash failed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"password":  newHash,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			log.Errorln("[AUTH] password update failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		user.Password = newHash
		sendSessionToken(c, user, http.StatusOK, secret, ttl, cookies)
	}
}

func UpdateProfile(db *mongo.Database, media gateway.MediaStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Login first")
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if name := strings.TrimSpace(req.Name); name != "" {
			update["name"] = name
		}
		if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
			update["email"] = email
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		// Replacing the avatar releases the previous external asset first.
		if avatar := strings.TrimSpace(req.Avatar); avatar != "" && avatar != "undefined" {
			if err := media.DeleteImage(ctx, user.Avatar.PublicID); err != nil {
				log.Errorln("[USER] old avatar delete failed:", err)
			}
			uploaded, err := media.UploadImage(ctx, "avatars", avatar)
			if err != nil {
				log.Errorln("[USER] avatar upload failed:", err)
				respondError(c, http.StatusBadGateway, "avatar upload failed")
				return
			}
			update["avatar"] = uploaded
		}

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{"$set": update})
		if err != nil {
			log.Errorln("[USER] profile update failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			log.Errorln("[USER] list users failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			log.Errorln("[USER] decode users failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"users":   users,
		})
	}
}

func GetSingleUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, "User does not exist.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"user":    user,
		})
	}
}

func UpdateUserRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var req updateUserRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role, ok := models.ParseRole(req.Role)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid role")
			return
		}

		update := bson.M{
			"role":      role,
			"updatedAt": time.Now(),
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			update["name"] = name
		}
		if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
			update["email"] = email
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": update})
		if err != nil {
			log.Errorln("[USER] role update failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, "User does not exist.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func DeleteUser(db *mongo.Database, media gateway.MediaStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, "User does not exist.")
			return
		}

		// Deleting the record releases the associated avatar asset.
		if err := media.DeleteImage(ctx, user.Avatar.PublicID); err != nil {
			log.Errorln("[USER] avatar delete failed:", err)
		}

		if _, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
			log.Errorln("[USER] delete failed:", err)
			respondError(c, http.StatusInternalServerError, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User deleted successfully.",
		})
	}
}
