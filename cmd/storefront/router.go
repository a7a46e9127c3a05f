package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/PratyushG434/Ecommerce-backend/docs"
	"github.com/PratyushG434/Ecommerce-backend/internal/address"
	"github.com/PratyushG434/Ecommerce-backend/internal/admin"
	"github.com/PratyushG434/Ecommerce-backend/internal/cart"
	"github.com/PratyushG434/Ecommerce-backend/internal/checkout"
	"github.com/PratyushG434/Ecommerce-backend/internal/config"
	"github.com/PratyushG434/Ecommerce-backend/internal/httpx"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/payu"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

type catalogService interface {
	List(ctx context.Context, q product.Query) (product.Page, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
	Trending(ctx context.Context) ([]product.Product, error)
	Bestsellers(ctx context.Context) ([]product.Product, error)
}

type checkoutService interface {
	CreateOrder(ctx context.Context, userID string, req checkout.Request) (*checkout.Result, error)
	HandleCallback(ctx context.Context, cb payu.Callback) checkout.Outcome
}

type orderReader interface {
	ListByUser(ctx context.Context, userID string) ([]order.Summary, error)
	GetByID(ctx context.Context, id string) (*order.Order, error)
}

type routerDeps struct {
	cfg       config.Config
	log       *zap.Logger
	limiter   *httpx.RateLimiter
	products  catalogService
	carts     *cart.Service
	addresses *address.Service
	users     *user.Service
	orders    orderReader
	checkout  checkoutService
	admin     *admin.Service
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log), httpx.SecurityHeaders(), httpx.CORS(d.cfg.FrontendURL))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	// the gateway posts from a small set of hosts, keep it out of the per-IP limiter
	api.POST("/payment/payu/callback", paymentCallbackHandler(d.checkout, d.cfg.FrontendURL, d.log))

	pub := api.Group("")
	if d.limiter != nil {
		pub.Use(d.limiter.Middleware())
	}
	pub.GET("/products", listProductsHandler(d.products, d.log))
	pub.GET("/products/trending", trendingHandler(d.products, d.log))
	pub.GET("/products/bestsellers", bestsellersHandler(d.products, d.log))
	pub.GET("/products/:id", getProductHandler(d.products, d.log))

	authed := pub.Group("", httpx.Auth(d.cfg.JWTSecret))
	authed.POST("/payment/create-order", createOrderHandler(d.checkout, d.log))

	u := authed.Group("/user")
	u.GET("/me", meHandler(d.users, d.log))
	u.PUT("/me", updateProfileHandler(d.users, d.log))
	u.PUT("/profile", updateProfileHandler(d.users, d.log))
	u.GET("/addresses", listAddressesHandler(d.addresses, d.log))
	u.POST("/addresses", addAddressHandler(d.addresses, d.log))
	u.DELETE("/addresses/:id", deleteAddressHandler(d.addresses, d.log))
	u.GET("/cart", getCartHandler(d.carts, d.log))
	u.POST("/cart", addToCartHandler(d.carts, d.log))
	u.DELETE("/cart/:itemId", removeFromCartHandler(d.carts, d.log))
	u.GET("/wishlist", getWishlistHandler(d.carts, d.log))
	u.POST("/wishlist", addToWishlistHandler(d.carts, d.log))
	u.GET("/wishlist/check/:productId", wishlistCheckHandler(d.carts, d.log))
	u.DELETE("/wishlist/:productId", removeFromWishlistHandler(d.carts, d.log))
	u.GET("/orders", listMyOrdersHandler(d.orders, d.log))
	u.GET("/orders/:id", getMyOrderHandler(d.orders, d.log))

	a := authed.Group("/admin", httpx.AdminOnly())
	a.GET("/dashboard", dashboardHandler(d.admin, d.log))
	a.GET("/metrics", metricsHandler(d.admin, d.log))
	a.POST("/products", createProductHandler(d.admin, d.log))
	a.PUT("/products/:id", updateProductHandler(d.admin, d.log))
	a.DELETE("/products/:id", deleteProductHandler(d.admin, d.log))
	a.GET("/orders", adminOrdersHandler(d.admin, d.log))
	a.PUT("/orders/:id/status", updateOrderStatusHandler(d.admin, d.log))
	a.POST("/orders/:id/refund", refundHandler(d.admin, d.log))
	a.GET("/customers", customersHandler(d.admin, d.log))
	a.PUT("/customers/:id/notes", customerNotesHandler(d.admin, d.log))
	a.GET("/activity", activityHandler(d.admin, d.log))
	a.GET("/me", adminMeHandler(d.admin, d.log))

	return r
}
