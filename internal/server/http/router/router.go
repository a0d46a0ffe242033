package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/quadramart/settlement/internal/server/http/handlers"
	"github.com/quadramart/settlement/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Facade, verifier handlers.SignatureVerifier, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	discountHandler := handlers.NewDiscountHandler(facade)
	flashSaleHandler := handlers.NewFlashSaleHandler(facade)
	walletHandler := handlers.NewWalletHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade, verifier)

	api := engine.Group("/api")
	api.POST("/payments/callback", paymentHandler.Callback)

	authed := api.Group("")
	authed.Use(middleware.IdentityRequired())

	authed.POST("/checkout", checkoutHandler.Checkout)
	authed.POST("/checkout/buy-now", checkoutHandler.BuyNow)

	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/items", orderHandler.Items)
	authed.GET("/orders/:id/timeline", orderHandler.Timeline)
	authed.POST("/orders/:id/confirm", orderHandler.Confirm)
	authed.POST("/orders/:id/cancel", orderHandler.Cancel)
	authed.POST("/orders/:id/note", orderHandler.AddNote)
	authed.POST("/orders/:id/buy-again", checkoutHandler.BuyAgain)

	authed.POST("/discounts/preview", discountHandler.Preview)
	authed.POST("/discounts/applicable", discountHandler.Applicable)

	authed.GET("/wallet", walletHandler.Summary)
	authed.GET("/wallet/transactions", walletHandler.History)
	authed.POST("/wallet/top-up", walletHandler.TopUp)

	seller := authed.Group("/seller")
	seller.PATCH("/orders/status", orderHandler.BatchUpdateStatus)
	seller.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	seller.POST("/discounts", discountHandler.Create)
	seller.PUT("/discounts/:id", discountHandler.Update)
	seller.PATCH("/discounts/:id/active", discountHandler.SetActive)
	seller.GET("/stores/:id/discounts", discountHandler.ListByStore)
	seller.POST("/flash-sales", flashSaleHandler.Create)
	seller.PUT("/flash-sales/:id", flashSaleHandler.Update)
	seller.DELETE("/flash-sales/:id", flashSaleHandler.Delete)

	return engine
}
