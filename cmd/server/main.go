package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ashev87/safechat/internal/config"
	"github.com/ashev87/safechat/internal/relay"
	"github.com/ashev87/safechat/internal/room"
	"github.com/ashev87/safechat/internal/websocket"
	"github.com/ashev87/safechat/shared/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
	}

	// Set Gin mode
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Room registry and relay router
	rooms := room.NewRegistry()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := relay.NewMetrics(promRegistry, rooms)
	relayRouter := relay.NewRouter(rooms, metrics)

	// Lifecycle sweeper reaps rooms that stayed empty past retention
	sweeper := room.NewSweeper(rooms, cfg.SweepInterval, cfg.RoomRetention)
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize Socket.IO server
	logger.Infof("Initializing Socket.IO server...")
	socketIOServer := websocket.NewSocketIOServer(rooms, relayRouter)
	defer socketIOServer.Close()

	// Create Gin router
	router := gin.Default()

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	// Root endpoint - returns plain text for client validation
	router.GET("/", func(c *gin.Context) {
		c.String(200, "Welcome to Safechat Relay!")
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// Mount Socket.IO endpoint at /v1/relay. No authentication: rooms are
	// capability-addressed by their unguessable id and all content is
	// end-to-end encrypted.
	router.Any("/v1/relay", socketIOServer.HandleSocketIO())
	router.Any("/v1/relay/*any", socketIOServer.HandleSocketIO())

	logger.Infof("Safechat Relay starting on %s", cfg.Addr)
	logger.Infof("Sweeper: interval=%s retention=%s", cfg.SweepInterval, cfg.RoomRetention)

	if cfg.TLS != nil {
		logger.Infof("TLS enabled: cert=%s", cfg.TLS.CertFile)
		err = router.RunTLS(cfg.Addr, cfg.TLS.CertFile, cfg.TLS.KeyFile)
	} else {
		err = router.Run(cfg.Addr)
	}
	if err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
