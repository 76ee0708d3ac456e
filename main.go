package main

import (
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/yi-nology/page_harbor/biz/dal/model"
	"github.com/yi-nology/page_harbor/biz/handler"
	"github.com/yi-nology/page_harbor/biz/middleware"
	"github.com/yi-nology/page_harbor/biz/router"
	deployservice "github.com/yi-nology/page_harbor/biz/service/deploy"
	historyservice "github.com/yi-nology/page_harbor/biz/service/history"
	previewservice "github.com/yi-nology/page_harbor/biz/service/preview"
	"github.com/yi-nology/page_harbor/pkg/config"
	"github.com/yi-nology/page_harbor/pkg/database"
	"github.com/yi-nology/page_harbor/pkg/lock"
	"github.com/yi-nology/page_harbor/pkg/redis"
	"github.com/yi-nology/page_harbor/pkg/storage"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&model.Deployment{}); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	log.Printf("storage backend: %s", store.Type())

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("init redis: %v", err)
	}
	if redisClient != nil {
		middleware.InitWriteLock(lock.New(redisClient, "page_harbor:write_lock", 30*time.Second, 10*time.Second))
		log.Printf("distributed write lock enabled")
	}

	historySvc := historyservice.NewService(db, cfg.Deploy.HistoryLimit)
	deploySvc := deployservice.NewService(store, historySvc, cfg)
	previewSvc := previewservice.NewService(store)

	h := server.Default(server.WithHostPorts(cfg.Server.Address))
	h.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(&cfg.CORS))

	router.Register(h,
		handler.NewDeployHandler(deploySvc),
		handler.NewHistoryHandler(historySvc, deploySvc),
		handler.NewPreviewHandler(previewSvc),
	)

	h.Spin()
}
