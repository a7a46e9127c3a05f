package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/PratyushG434/Ecommerce-backend/internal/address"
	"github.com/PratyushG434/Ecommerce-backend/internal/admin"
	"github.com/PratyushG434/Ecommerce-backend/internal/cart"
	"github.com/PratyushG434/Ecommerce-backend/internal/checkout"
	"github.com/PratyushG434/Ecommerce-backend/internal/config"
	"github.com/PratyushG434/Ecommerce-backend/internal/database"
	"github.com/PratyushG434/Ecommerce-backend/internal/events"
	"github.com/PratyushG434/Ecommerce-backend/internal/httpx"
	"github.com/PratyushG434/Ecommerce-backend/internal/logger"
	"github.com/PratyushG434/Ecommerce-backend/internal/mail"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/payu"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

const callbackPath = "/api/payment/payu/callback"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic("logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("schema migrate", zap.Error(err))
	}

	var cache product.Cache
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("parse REDIS_URL", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
		cache = product.NewRedisCache(rdb, cfg.CatalogCacheTTL, log)
	} else {
		log.Info("REDIS_URL not set, catalog cache disabled")
	}

	userRepo := user.NewPGRepo(pool)
	var directory user.Directory = user.NewRepoDirectory(userRepo)
	if cfg.AccountSvcAddr != "" {
		gd, err := user.DialDirectory(cfg.AccountSvcAddr)
		if err != nil {
			log.Fatal("dial account service", zap.String("addr", cfg.AccountSvcAddr), zap.Error(err))
		}
		defer func() { _ = gd.Close() }()
		directory = gd
	}

	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.SMTPHost != "" {
		s, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		if err != nil {
			log.Fatal("smtp sender", zap.Error(err))
		}
		sender = s
	}

	var publisher events.Publisher
	if cfg.OrderTopicArn != "" {
		awsCfg, err := cfg.AWS(ctx)
		if err != nil {
			log.Fatal("aws config", zap.Error(err))
		}
		p, err := events.NewSNSPublisher(awsCfg, cfg.OrderTopicArn)
		if err != nil {
			log.Fatal("sns publisher", zap.Error(err))
		}
		publisher = p
	}

	products := product.NewService(product.NewPGRepo(pool), cache, log)
	carts := cart.NewService(cart.NewPGRepo(pool))
	addresses := address.NewService(address.NewPGRepo(pool))
	users := user.NewService(userRepo)
	orders := order.NewPGRepo(pool)

	co := checkout.NewService(checkout.Deps{
		Catalog:   products,
		Carts:     carts,
		Ledger:    orders,
		Gateway:   payu.New(cfg.PayUKey, cfg.PayUSalt, cfg.PayUMode),
		Directory: directory,
		Notifier:  mail.NewNotifier(sender, log),
		Events:    events.NewBus(publisher, log),
	}, cfg.BackendURL+callbackPath, log)

	adm := admin.NewService(products, orders, users, admin.NewPGActivityRepo(pool), log)

	limiter := httpx.NewRateLimiter(rate.Limit(20), 40, 10*time.Minute)
	go sweep(ctx, limiter)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(routerDeps{
		cfg:       cfg,
		log:       log,
		limiter:   limiter,
		products:  products,
		carts:     carts,
		addresses: addresses,
		users:     users,
		orders:    orders,
		checkout:  co,
		admin:     adm,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("storefront listening", zap.String("addr", cfg.HTTPAddr), zap.String("payu_mode", cfg.PayUMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("close redis", zap.Error(err))
		}
	}
}

func sweep(ctx context.Context, rl *httpx.RateLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Sweep()
		}
	}
}
