package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"

	"tvrelay/conf"
	"tvrelay/internal/dao"
	"tvrelay/internal/exchange"
	"tvrelay/internal/exchange/binance"
	"tvrelay/internal/handler/audit"
	"tvrelay/internal/handler/webhook"
	"tvrelay/internal/model"
	"tvrelay/internal/router"
	"tvrelay/internal/service"
	"tvrelay/internal/signal"
	"tvrelay/internal/symbol"
	"tvrelay/pkg/db"
	"tvrelay/pkg/logger"
)

// 启动服务（监听webhook并转发市价单）

/*
测试

curl -X POST http://localhost:10000/webhook \
  -H "Content-Type: application/json" \
  -d '{"action":"BUY","symbol":"BINANCE:BTCUSDT","qty":0.001}'

curl -X POST http://localhost:10000/webhook \
  -H "Content-Type: application/json" \
  -d '{"ping":true}'
*/

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := conf.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		FileName:   cfg.Log.FileName,
		TimeFormat: cfg.Log.TimeFormat,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		LocalTime:  cfg.Log.LocalTime,
		Console:    cfg.Log.Console,
	})
	defer logger.Sync()

	gdb, err := db.Init(db.NewConfig(cfg.Db.Username, cfg.Db.Password, cfg.Db.Host, cfg.Db.Port, cfg.Db.DbName))
	if err != nil {
		logger.Fatal("database init failed", logger.Pair("err", err.Error()))
	}
	// 审计表只追加，结构简单，直接migrate
	if err := gdb.AutoMigrate(&model.TradeRecord{}, &model.WebhookRecord{}); err != nil {
		logger.Fatal("auto migrate failed", logger.Pair("err", err.Error()))
	}

	tradeDao := dao.NewTradeDao(gdb)
	hookDao := dao.NewWebhookDao(gdb)

	var executor exchange.Executor
	if cfg.Mode == "simulated" {
		logger.Info("running in simulated mode, orders will not reach the exchange")
		executor = exchange.NewSimulatedExecutor()
	} else {
		executor = binance.NewClient(cfg.Binance)
		gin.SetMode(gin.ReleaseMode)
	}

	table := symbol.NewTable(cfg.Symbols)
	validator := signal.NewValidator(table)
	orderService := service.NewOrderService(executor, tradeDao, cfg.Binance.OrderTimeout())
	auditService := service.NewAuditService(tradeDao, hookDao)

	wh := webhook.NewHandler(validator, orderService, hookDao)
	ah := audit.NewHandler(auditService)

	apiRouter := router.NewApiRouter(cfg, wh, ah, hookDao)

	srv := NewServer(cfg)
	srv.Run(apiRouter)
}
