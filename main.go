package main

import (
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/gateway"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/models"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatalln("mongo connect failed:", err)
	}
	db := client.Database(cfg.DBName)
	log.Infoln("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Warnln("user index warning:", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Warnln("product index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Warnln("order index warning:", err)
	}

	media, err := gateway.NewS3MediaStorage(gateway.S3Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretKey,
		Bucket:          cfg.MediaBucket,
		Endpoint:        cfg.MediaEndpoint,
	})
	if err != nil {
		log.Fatalln("media storage init failed:", err)
	}

	mailer := gateway.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	payments := gateway.NewStripeGateway(cfg.StripeSecretKey)

	cookies := auth.CookiePolicy{
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	}

	authed := middleware.Authenticate(db, cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	r := gin.Default()

	user := r.Group("/user")
	{
		user.POST("/register", handlers.Register(db, media, cfg.JWTSecret, cfg.SessionTTL, cookies))
		user.POST("/login", handlers.Login(db, cfg.JWTSecret, cfg.SessionTTL, cookies))
		user.GET("/logout", authed, handlers.Logout(cookies))
		user.GET("/", authed, handlers.GetUser())
		user.POST("/password/forgot", handlers.ForgotPassword(db, mailer, cfg.FrontendURL, cfg.ResetTokenTTL))
		user.PUT("/password/reset/:token", handlers.ResetPassword(db, cfg.JWTSecret, cfg.SessionTTL, cookies))
		user.PUT("/password/update", authed, handlers.UpdatePassword(db, cfg.JWTSecret, cfg.SessionTTL, cookies))
		user.PUT("/update", authed, handlers.UpdateProfile(db, media))
		user.GET("/getAllUsers", authed, adminOnly, handlers.GetAllUsers(db))
		user.GET("/admin/user/:id", authed, adminOnly, handlers.GetSingleUser(db))
		user.PUT("/admin/user/:id", authed, adminOnly, handlers.UpdateUserRole(db))
		user.DELETE("/admin/user/:id", authed, adminOnly, handlers.DeleteUser(db, media))
	}

	product := r.Group("/product")
	{
		product.GET("/products", handlers.GetProducts(db))
		product.GET("/admin/products", authed, adminOnly, handlers.GetAdminProducts(db))
		product.POST("/admin/create", authed, adminOnly, handlers.CreateProduct(db, media))
		product.PUT("/admin/:id", authed, adminOnly, handlers.UpdateProduct(db, media))
		product.DELETE("/admin/:id", authed, adminOnly, handlers.DeleteProduct(db, media))
		product.GET("/details/:id", handlers.GetProductDetails(db))
		product.PUT("/review", authed, handlers.CreateProductReview(db))
		product.GET("/reviews", handlers.GetProductReviews(db))
		product.DELETE("/reviews", authed, handlers.DeleteProductReview(db))
	}

	order := r.Group("/order")
	{
		order.POST("/new", authed, handlers.NewOrder(db))
		order.GET("/details/:id", authed, handlers.GetSingleOrder(db))
		order.GET("/myOrders", authed, handlers.MyOrders(db))
		order.GET("/allOrders", authed, adminOnly, handlers.GetAllOrders(db))
		order.PUT("/order/:id", authed, adminOnly, handlers.UpdateOrder(db))
		order.DELETE("/order/:id", authed, adminOnly, handlers.DeleteOrder(db))
	}

	payment := r.Group("/payment")
	{
		payment.POST("/process", authed, handlers.ProcessPayment(payments))
		payment.GET("/stripeapikey", authed, handlers.SendStripeAPIKey(cfg.StripePublishableKey))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalln("server stopped:", err)
	}
}
