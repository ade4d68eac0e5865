package routes

import (
	handlers "artisan/internal/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SetupBlogRoutes mounts the public blog and the inbound email webhook.
func SetupBlogRoutes(r gin.IRouter, blogHandler *handlers.BlogHandler, inboundHandler *handlers.InboundEmailHandler) {
	r.GET("/posts", blogHandler.ListPosts)
	r.GET("/posts/:slug", blogHandler.GetPost)
	r.GET("/categories", blogHandler.GetCategories)

	r.POST("/webhook/brevo", inboundHandler.HandleInboundEmail)
}

// SetupAdminRoutes mounts the operator API. Everything but login sits
// behind adminRequired.
func SetupAdminRoutes(
	r gin.IRouter,
	adminRequired gin.HandlerFunc,
	limit gin.HandlerFunc,
	adminHandler *handlers.AdminHandler,
	orderHandler *handlers.OrderHandler,
) {
	admin := r.Group("/admin")
	admin.POST("/login", limit, adminHandler.Login)

	protected := admin.Group("")
	protected.Use(adminRequired)
	{
		protected.GET("/verify", adminHandler.VerifyToken)

		// Blog posts
		protected.GET("/posts", adminHandler.ListPosts)
		protected.POST("/posts", adminHandler.CreatePost)
		protected.GET("/posts/:id", adminHandler.GetPost)
		protected.PUT("/posts/:id", adminHandler.UpdatePost)
		protected.DELETE("/posts/:id", adminHandler.DeletePost)
		protected.POST("/posts/:id/publish", adminHandler.PublishPost)
		protected.POST("/uploads", adminHandler.UploadImage)

		// Orders and subscriptions
		protected.GET("/orders", orderHandler.ListOrders)
		protected.GET("/orders/:order_number", orderHandler.GetOrder)
		protected.PATCH("/orders/:order_number", orderHandler.UpdateOrderStatus)
		protected.GET("/subscriptions", orderHandler.ListSubscriptions)
		protected.GET("/subscriptions/:subscription_number", orderHandler.GetSubscription)
	}
}
