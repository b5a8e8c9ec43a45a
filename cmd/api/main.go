package main

import (
	"log"
	"net/http"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Multi-Tenant Inventory API
// @version         1.0
// @description     Tenant-scoped inventory, order and operations backend.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "inventory-api",
	}); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		logger.L().Fatal("seed failed", zap.Error(err))
	}
	logger.L().Info("connected to postgres", zap.String("host", cfg.DBHost))

	wsHub := websocket.NewHub()
	go wsHub.Run()

	// repositories
	txManager := repository.NewTransactionManager(db)
	tenantRepo := repository.NewTenantRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	productRepo := repository.NewProductRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// services
	auditService := service.NewAuditService(auditRepo)
	defer auditService.Close()
	dashboardCache := service.NewDashboardCache(cfg.DashboardCacheTTL)

	authService := service.NewAuthService(userRepo, sessionRepo, auditService, []byte(cfg.JWTSecret), cfg.SessionTTL)
	tenantService := service.NewTenantService(tenantRepo, auditService)
	userService := service.NewUserService(userRepo, tenantRepo, auditService)
	roleService := service.NewRoleService(roleRepo, auditService)
	productService := service.NewProductService(productRepo, tenantRepo, auditService, dashboardCache)
	catalogService := service.NewCatalogService(catalogRepo)
	siteService := service.NewSiteService(siteRepo, tenantRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, inventoryRepo, txManager, auditService, dashboardCache)
	purchaseService := service.NewPurchaseService(purchaseRepo, productRepo, inventoryRepo, txManager, auditService)
	expenseService := service.NewExpenseService(expenseRepo, auditService, dashboardCache)
	customerService := service.NewCustomerService(customerRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo, txManager, auditService, dashboardCache)
	noticeService := service.NewNoticeService(noticeRepo, wsHub, auditService)
	dashboardService := service.NewDashboardService(dashboardRepo, dashboardCache)

	// router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Tenant-ID", "X-Session-Token"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestLogger())
	router.Use(middleware.Authenticate(sessionRepo, []byte(cfg.JWTSecret)))
	router.Use(middleware.ResolveTenant(tenantRepo))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	api := router.Group("")
	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewTenantHandler(tenantService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewRoleHandler(roleService).RegisterRoutes(api)
	handler.NewProductHandler(productService).RegisterRoutes(api)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(api)
	handler.NewSiteHandler(siteService).RegisterRoutes(api)
	handler.NewOrderHandler(orderService).RegisterRoutes(api)
	handler.NewPurchaseHandler(purchaseService).RegisterRoutes(api)
	handler.NewExpenseHandler(expenseService).RegisterRoutes(api)
	handler.NewCustomerHandler(customerService).RegisterRoutes(api)
	handler.NewInventoryHandler(inventoryService).RegisterRoutes(api)
	handler.NewNoticeHandler(noticeService).RegisterRoutes(api)
	handler.NewAuditHandler(auditService, cfg.AuditRetentionDays).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(api)

	logger.L().Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.L().Fatal("server failed", zap.Error(err))
	}
}
