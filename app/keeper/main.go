package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viney-shih/goroutines"

	"github.com/doma-auction/goapi/base/backoff"
	bCtx "github.com/doma-auction/goapi/base/ctx"
	"github.com/doma-auction/goapi/base/database/mongoclient"
	"github.com/doma-auction/goapi/base/database/redisclient"
	"github.com/doma-auction/goapi/base/goroutine"
	"github.com/doma-auction/goapi/base/log"
	"github.com/doma-auction/goapi/base/metrics"
	"github.com/doma-auction/goapi/domain"
	"github.com/doma-auction/goapi/domain/auction"
	"github.com/doma-auction/goapi/domain/offermirror"
	mmiddleware "github.com/doma-auction/goapi/middleware"
	"github.com/doma-auction/goapi/service/orderbook"
	"github.com/doma-auction/goapi/service/query"
	"github.com/doma-auction/goapi/service/redis"
	auction_repository "github.com/doma-auction/goapi/stores/auction/repository"
	auction_usecase "github.com/doma-auction/goapi/stores/auction/usecase"
	dometoken_repository "github.com/doma-auction/goapi/stores/dometoken/repository"
	dometoken_usecase "github.com/doma-auction/goapi/stores/dometoken/usecase"
	fund_repository "github.com/doma-auction/goapi/stores/fund/repository"
	fund_usecase "github.com/doma-auction/goapi/stores/fund/usecase"
	offermirror_repository "github.com/doma-auction/goapi/stores/offermirror/repository"
	offermirror_usecase "github.com/doma-auction/goapi/stores/offermirror/usecase"
)

const settleBatch = int32(64)

func init() {
	configFile := pflag.String("config", "infra/configs/keeper/config.yaml", "config file path")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// health check endpoint for the deployment platform
	startEchoServer()

	ctx.Info("init mongo")
	q := initMongo()

	ctx.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCachePool := redisclient.MustConnectRedis(
		viper.GetString("redis_cache.uri"),
		viper.GetString("redis_cache.password"),
		redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          true,
		},
	)
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	orderbookClient, err := orderbook.NewClient(&orderbook.ClientCfg{
		HttpClient: http.Client{},
		Timeout:    viper.GetDuration("orderbook.timeout"),
		Apikey:     viper.GetString("orderbook.apikey"),
		BaseUrl:    viper.GetString("orderbook.baseUrl"),
		SigningKey: viper.GetString("orderbook.signingKey"),
	})
	if err != nil {
		ctx.WithField("err", err).Panic("orderbook.NewClient failed")
	}

	custodyAddress := domain.Address(viper.GetString("auction.custodyAddress")).ToLower()

	auctionRepo := auction_repository.New(q, redisCache)
	bidRepo := auction_repository.NewBidRepo(q)
	eventRepo := auction_repository.NewEventRepo(q)
	fundRepo := fund_repository.New(q)
	tokenRepo := dometoken_repository.New(q)
	stateRepo := offermirror_repository.New(q)

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
		CustodyAddress: custodyAddress,
	})
	mirrorUC := offermirror_usecase.New(&offermirror_usecase.MirrorUseCaseCfg{
		EventRepo:    eventRepo,
		StateRepo:    stateRepo,
		Orderbook:    orderbookClient,
		PaymentToken: domain.Address(viper.GetString("orderbook.paymentToken")).ToLower(),
	})

	settleInterval := viper.GetDuration("keeper.settleInterval")
	mirrorInterval := viper.GetDuration("keeper.mirrorInterval")

	done := make(chan struct{}, 2)
	goroutine.RecoverableGo(func() {
		runSettler(ctx, auctionUC, custodyAddress, settleInterval, done)
	})
	goroutine.RecoverableGo(func() {
		runMirror(ctx, mirrorUC, mirrorInterval, done)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	ctx.WithField("signal", sig).Info("received signal")
	cancel()
	<-done
	<-done
}

// runSettler finalizes every expired unsettled auction once per tick.
func runSettler(ctx bCtx.Ctx, uc auction.UseCase, caller domain.Address, interval time.Duration, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			settleExpired(ctx, uc, caller)
		}
	}
}

func settleExpired(ctx bCtx.Ctx, uc auction.UseCase, caller domain.Address) {
	expired, err := uc.FindAll(ctx,
		auction.WithSettled(false),
		auction.WithEndTimeLT(time.Now()),
		auction.WithPagination(0, settleBatch),
		auction.WithSort("auctionId"),
	)
	if err != nil {
		ctx.WithField("err", err).Error("FindAll expired auctions failed")
		return
	}
	if len(expired) == 0 {
		return
	}

	b := goroutines.NewBatch(4, goroutines.WithBatchSize(len(expired)))
	defer b.Close()
	for i := 0; i < len(expired); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			a := expired[idx]
			if _, err := uc.Settle(ctx, a.AuctionId, caller); err != nil && err != domain.ErrAlreadySettled {
				ctx.WithFields(log.Fields{
					"auctionId": a.AuctionId,
					"err":       err,
				}).Error("settle failed")
				return nil, err
			}
			return a.AuctionId, nil
		})
	}
	b.QueueComplete()

	settled := 0
	for ret := range b.Results() {
		if ret.Error() == nil {
			settled++
		}
	}
	ctx.WithFields(log.Fields{
		"expired": len(expired),
		"settled": settled,
	}).Info("settle pass finished")
}

// runMirror drains newly appended bid events into the orderbook, backing
// off while the orderbook is unreachable.
func runMirror(ctx bCtx.Ctx, uc offermirror.UseCase, interval time.Duration, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()

	bo := backoff.NewExponential(interval, 10*interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, err := uc.ProcessOnce(ctx)
			if err != nil {
				ctx.WithField("err", err).Error("mirror pass failed")
				if err := bo.Backoff(ctx); err != nil {
					return
				}
				continue
			}
			bo.Reset()
			if processed > 0 {
				ctx.WithField("processed", processed).Info("mirrored bid events")
			}
		}
	}
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}
