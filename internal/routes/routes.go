package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/handlers"
	"github.com/raihanm/shopline-golang/internal/middleware"
)

// CORSMiddleware allows the configured storefront frontend to call us
// with credentials (the cart session cookie and Authorization header).
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("FRONTEND_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		// Login carries the guest session so the cart merge can run.
		v1.POST("/login", middleware.GuestSession(), h.Login)

		// --- Public Product Browse Routes ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:id", h.GetProduct)

		// --- Cart Routes (guest or authenticated) ---
		cart := v1.Group("/cart")
		cart.Use(middleware.GuestSession())
		cart.Use(middleware.OptionalAuth())
		{
			cart.GET("", h.GetCart)
			cart.POST("/items", h.AddToCart)
			cart.PUT("/items/:product_id", h.UpdateCartItem)
			cart.DELETE("/items/:product_id", h.DeleteCartItem)
		}

		// --- Protected Routes (Login Required) ---
		authed := v1.Group("/")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/checkout", h.Checkout)

			authed.GET("/orders", h.GetMyOrders)
			authed.GET("/orders/:id", h.GetOrderDetails)
			authed.POST("/orders/:id/confirm", h.ConfirmOrder)
			authed.POST("/orders/:id/cancel", h.CancelOrder)
		}
	}

	return router
}
