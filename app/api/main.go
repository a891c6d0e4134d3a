package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/database/mongoclient"
	"github.com/doma-auction/goapi/base/database/redisclient"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/base/metrics"
	bValidator "github.com/doma-auction/goapi/base/validator"
	"github.com/doma-auction/goapi/domain"
	mmiddleware "github.com/doma-auction/goapi/middleware"
	"github.com/doma-auction/goapi/service/query"
	"github.com/doma-auction/goapi/service/redis"
	account_delivery "github.com/doma-auction/goapi/stores/account/delivery/http"
	account_repository "github.com/doma-auction/goapi/stores/account/repository"
	account_usecase "github.com/doma-auction/goapi/stores/account/usecase"
	auction_delivery "github.com/doma-auction/goapi/stores/auction/delivery/http"
	auction_repository "github.com/doma-auction/goapi/stores/auction/repository"
	auction_usecase "github.com/doma-auction/goapi/stores/auction/usecase"
	auth_delivery "github.com/doma-auction/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/doma-auction/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/doma-auction/goapi/stores/auth/usecase"
	dometoken_delivery "github.com/doma-auction/goapi/stores/dometoken/delivery/http"
	dometoken_repository "github.com/doma-auction/goapi/stores/dometoken/repository"
	dometoken_usecase "github.com/doma-auction/goapi/stores/dometoken/usecase"
	fund_delivery "github.com/doma-auction/goapi/stores/fund/delivery/http"
	fund_repository "github.com/doma-auction/goapi/stores/fund/repository"
	fund_usecase "github.com/doma-auction/goapi/stores/fund/usecase"
	hc_delivery "github.com/doma-auction/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/doma-auction/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/doma-auction/goapi/stores/healthcheck/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	accountRepo := account_repository.New(q, redisCache)
	auctionRepo := auction_repository.New(q, redisCache)
	bidRepo := auction_repository.NewBidRepo(q)
	eventRepo := auction_repository.NewEventRepo(q)
	fundRepo := fund_repository.New(q)
	tokenRepo := dometoken_repository.New(q)

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.New(&account_usecase.AccountUseCaseCfg{
		Repo:         accountRepo,
		SignatureMsg: viper.GetString("auth.signatureMsg"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), account)
	custody := fund_usecase.New(&fund_usecase.CustodyCfg{
		Repo: fundRepo,
	})
	token := dometoken_usecase.New(&dometoken_usecase.TokenUseCaseCfg{
		Repo: tokenRepo,
	})
	auctionUC := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo:    auctionRepo,
		BidRepo:        bidRepo,
		EventRepo:      eventRepo,
		Custody:        custody,
		TokenUC:        token,
		Query:          q,
		CommitmentFee:  viper.GetString("auction.commitmentFee"),
		CustodyAddress: domain.Address(viper.GetString("auction.custodyAddress")).ToLower(),
	})

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, account, viper.GetString("auth.signatureMsg"))
	account_delivery.New(e, account)
	fund_delivery.New(e, custody, authMiddleware.Auth())
	dometoken_delivery.New(e, token, authMiddleware.Auth(), authMiddleware.IsAdmin())
	auction_delivery.New(e, auctionUC, authMiddleware.Auth())

	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": c.Get("address").(domain.Address),
		})
	}, authMiddleware.Auth())

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
