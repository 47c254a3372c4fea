package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/minimarket/goapi/base/ctx"
	"github.com/minimarket/goapi/base/database/mongoclient"
	"github.com/minimarket/goapi/base/database/redisclient"
	"github.com/minimarket/goapi/base/log"
	"github.com/minimarket/goapi/base/metrics"
	bValidator "github.com/minimarket/goapi/base/validator"
	"github.com/minimarket/goapi/domain"
	mmiddleware "github.com/minimarket/goapi/middleware"
	"github.com/minimarket/goapi/service/chain"
	"github.com/minimarket/goapi/service/chain/contract"
	"github.com/minimarket/goapi/service/query"
	"github.com/minimarket/goapi/service/redis"
	account_delivery "github.com/minimarket/goapi/stores/account/delivery/http"
	account_repository "github.com/minimarket/goapi/stores/account/repository"
	account_usecase "github.com/minimarket/goapi/stores/account/usecase"
	auth_delivery "github.com/minimarket/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/minimarket/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/minimarket/goapi/stores/auth/usecase"
	hc_delivery "github.com/minimarket/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/minimarket/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/minimarket/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/minimarket/goapi/stores/listing/delivery/http"
	listing_repository "github.com/minimarket/goapi/stores/listing/repository"
	listing_usecase "github.com/minimarket/goapi/stores/listing/usecase"
	payment_delivery "github.com/minimarket/goapi/stores/payment/delivery/http"
	payment_repository "github.com/minimarket/goapi/stores/payment/repository"
	payment_usecase "github.com/minimarket/goapi/stores/payment/usecase"
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

//	@title			MiniMarket API
//	@version		1.0
//	@description	API Document for the MiniMarket ledger.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrive token from #/auth/post_auth_sign and apply with `bearer {token}`
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
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient)

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

	// init chain service for settlement token reads
	token := viper.Sub("settlementToken")
	tokenChainId := domain.ChainId(token.GetInt("chainId"))
	tokenAddress := domain.Address(token.GetString("address")).ToLower()
	tokenDecimals := token.GetInt32("decimals")
	rpcs := map[int32]string{
		int32(tokenChainId): token.GetString("rpcUrl"),
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls: rpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	erc20Service := contract.NewErc20(chainService)

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	listingRepo := listing_repository.New(q)
	balanceRepo := payment_repository.New(q)
	accountRepo := account_repository.New(q, redisCache)

	hc := hc_usecase.New(hcRepo, viper.GetString("version"))
	account := account_usecase.New(&account_usecase.AccountUseCaseCfg{
		Repo:         accountRepo,
		SignatureMsg: viper.GetString("auth.signatureMsg"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), account)
	listing := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo:   listingRepo,
		Transferer:    balanceRepo,
		Query:         q,
		TokenDecimals: tokenDecimals,
	})
	payment := payment_usecase.New(&payment_usecase.PaymentUseCaseCfg{
		BalanceRepo:  balanceRepo,
		Erc20:        erc20Service,
		ChainId:      tokenChainId,
		TokenAddress: tokenAddress,
	})

	adminAddresses := viper.GetStringSlice("admin.addresses")
	auth_middleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, viper.GetString("auth.signatureMsg"))
	account_delivery.New(e, account)
	listing_delivery.New(e, listing, auth_middleware)
	payment_delivery.New(e, payment, auth_middleware)

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
