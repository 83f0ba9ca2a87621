// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/checkout"
	"github.com/your-org/storefront-gateway/internal/domain/identity"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/domain/product"
	"github.com/your-org/storefront-gateway/internal/domain/wishlist"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-gateway/internal/pkg/receipt"
)

// Services carries the wired domain services into the route table
type Services struct {
	Identity  *identity.Service
	Products  *product.Service
	Carts     *cart.Service
	Wishlists *wishlist.Service
	Checkout  *checkout.Service
	Orders    *order.Service
	Receipts  *receipt.Service
}

// SetupRoutes registers all API routes
func SetupRoutes(rg *gin.RouterGroup, svc *Services) {
	authHandler := handlers.NewAuthHandler(svc.Identity)
	productHandler := handlers.NewProductHandler(svc.Products)
	cartHandler := handlers.NewCartHandler(svc.Carts, svc.Products)
	wishlistHandler := handlers.NewWishlistHandler(svc.Wishlists, svc.Products)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, svc.Carts)
	orderHandler := handlers.NewOrderHandler(svc.Orders, svc.Receipts)
	adminHandler := handlers.NewAdminHandler(svc.Products, svc.Orders)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		protected := auth.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/profile", authHandler.Profile)
		}
	}

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/recently-viewed", productHandler.RecentlyViewed)
		products.GET("/:id", productHandler.GetProduct)
	}

	// Cart and wishlist work for guests and authenticated users alike
	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}

	wishlistGroup := rg.Group("/wishlist")
	{
		wishlistGroup.GET("", wishlistHandler.GetWishlist)
		wishlistGroup.POST("/toggle", wishlistHandler.ToggleItem)
		wishlistGroup.DELETE("/items/:id", wishlistHandler.RemoveItem)
		wishlistGroup.DELETE("", wishlistHandler.ClearWishlist)
	}

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.RequireAuth())
	{
		checkoutGroup.GET("", checkoutHandler.GetState)
		checkoutGroup.POST("/shipping", checkoutHandler.SubmitShipping)
		checkoutGroup.POST("/payment", checkoutHandler.SubmitPayment)
		checkoutGroup.POST("/back", checkoutHandler.Back)
		checkoutGroup.POST("/place-order", checkoutHandler.PlaceOrder)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.RequireAuth())
	{
		orders.GET("", orderHandler.MyOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/pay", orderHandler.PayOrder)
		orders.GET("/:id/receipt", orderHandler.DownloadReceipt)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/products", adminHandler.CreateProduct)
		admin.PUT("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)

		admin.GET("/orders", adminHandler.ListOrders)
		admin.PUT("/orders/:id/deliver", adminHandler.MarkOrderDelivered)
		admin.PUT("/orders/:id/pay", adminHandler.MarkOrderPaid)
		admin.DELETE("/orders/:id", adminHandler.DeleteOrder)

		admin.GET("/dashboard", adminHandler.Dashboard)
	}
}
