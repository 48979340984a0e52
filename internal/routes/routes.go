package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PrashantAgrawal2107/SewaSaathi/internal/database"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/handlers"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/middleware"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/repository"
	"github.com/PrashantAgrawal2107/SewaSaathi/internal/services"
)

// RegisterRoutes câble dépôts, services et handlers puis monte la table de
// routage complète
func RegisterRoutes(r *gin.Engine) {
	users := repository.NewUserRepository(database.Mongo)
	workers := repository.NewWorkerRepository(database.Mongo)
	catalog := repository.NewServiceRepository(database.Mongo)
	carts := repository.NewCartRepository(database.Mongo)
	orders := repository.NewOrderRepository(database.Mongo)
	reviews := repository.NewReviewRepository(database.Mongo)

	cartService := services.NewCartService(carts, catalog, users, workers)
	orderService := services.NewOrderService(orders, carts, services.NewStripeGateway())

	userHandler := handlers.NewUserHandler(users)
	workerHandler := handlers.NewWorkerHandler(workers)
	serviceHandler := handlers.NewServiceHandler(catalog)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, cartService, users)
	reviewHandler := handlers.NewReviewHandler(reviews, users, workers)
	locationHandler := handlers.NewLocationHandler(users)

	// Users
	userGroup := r.Group("/users")
	{
		userGroup.POST("/register", userHandler.Register)
		userGroup.POST("/login", middleware.LoginRateLimit(), userHandler.Login)
		userGroup.POST("/logout", middleware.AuthRequired(), userHandler.Logout)
		userGroup.GET("/me", middleware.AuthRequired(), userHandler.GetProfile)
		userGroup.PUT("/me", middleware.AuthRequired(), userHandler.UpdateProfile)
		userGroup.GET("", middleware.AuthRequired(), middleware.RequireAdmin, userHandler.GetAllUsers)
		userGroup.GET("/:id", middleware.AuthRequired(), middleware.RequireAdmin, userHandler.GetUserByID)
		userGroup.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, userHandler.DeleteUser)
	}

	// Workers
	workerGroup := r.Group("/workers")
	{
		workerGroup.POST("", workerHandler.Register)
		workerGroup.POST("/login", workerHandler.Login)
		workerGroup.GET("", workerHandler.GetAllWorkers)
		workerGroup.GET("/:id", workerHandler.GetWorkerByID)
		workerGroup.PATCH("/:id", middleware.AuthWorker(), workerHandler.UpdateWorker)
		workerGroup.POST("/:id/documents", middleware.AuthWorker(), workerHandler.UploadDocuments)
		workerGroup.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, workerHandler.DeleteWorker)
	}

	// Catalogue de services
	serviceGroup := r.Group("/services")
	{
		serviceGroup.POST("", middleware.AuthRequired(), middleware.RequireAdmin, serviceHandler.CreateService)
		serviceGroup.GET("", serviceHandler.GetAllServices)
		serviceGroup.GET("/category/:category", serviceHandler.GetServicesByCategory)
		serviceGroup.GET("/search", serviceHandler.SearchServices)
		serviceGroup.GET("/:id", serviceHandler.GetServiceByID)
		serviceGroup.PUT("/:id", middleware.AuthRequired(), middleware.RequireAdmin, serviceHandler.UpdateService)
		serviceGroup.DELETE("/:id", middleware.AuthRequired(), middleware.RequireAdmin, serviceHandler.DeleteService)
	}

	// Panier
	cartGroup := r.Group("/cart", middleware.AuthRequired())
	{
		cartGroup.POST("/add", cartHandler.AddToCart)
		cartGroup.DELETE("/remove", cartHandler.DeleteFromCart)
		cartGroup.DELETE("/clear", cartHandler.ClearCart)
		cartGroup.GET("/view", cartHandler.ViewCart)
		cartGroup.PUT("/update", cartHandler.UpdateCart)
	}

	// Commandes & paiement
	orderGroup := r.Group("/order", middleware.AuthRequired())
	{
		orderGroup.POST("/create", orderHandler.CreateOrder)
		orderGroup.PUT("/complete/:orderId", middleware.RequireAdmin, orderHandler.CompleteOrder)
		orderGroup.POST("/pay", orderHandler.ProcessPayment)
		orderGroup.DELETE("/cancel/:orderId", orderHandler.CancelOrder)
		orderGroup.GET("/history", orderHandler.GetUserOrders)
		orderGroup.GET("", middleware.RequireAdmin, orderHandler.GetAllOrders)
		orderGroup.GET("/status/:status", middleware.RequireAdmin, orderHandler.GetOrdersByStatus)
		orderGroup.GET("/:orderId", orderHandler.GetOrderByID)
	}

	// Avis
	reviewGroup := r.Group("/review")
	{
		reviewGroup.POST("/add", middleware.AuthRequired(), reviewHandler.AddReview)
		reviewGroup.PUT("/update/:reviewId", middleware.AuthRequired(), reviewHandler.UpdateReview)
		reviewGroup.DELETE("/delete/:reviewId", middleware.AuthRequired(), reviewHandler.DeleteReview)
		reviewGroup.GET("/worker/:workerId", reviewHandler.GetWorkerReviews)
		reviewGroup.GET("/user", middleware.AuthRequired(), reviewHandler.GetUserReviews)
	}

	// Localisation
	locationGroup := r.Group("/location")
	{
		locationGroup.PUT("/worker", middleware.AuthWorker(), locationHandler.UpdateWorkerLocation)
		locationGroup.GET("/worker/:workerId", locationHandler.GetWorkerLocation)
		locationGroup.PUT("/user", middleware.AuthRequired(), locationHandler.UpdateUserLocation)
		locationGroup.GET("/ws", locationHandler.LocationFeed)
	}
}
