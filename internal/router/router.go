package router

import (
	"time"

	"github.com/NivedanR/capstone-erp/internal/config"
	"github.com/NivedanR/capstone-erp/internal/handler"
	"github.com/NivedanR/capstone-erp/internal/infra"
	"github.com/NivedanR/capstone-erp/internal/middleware"
	"github.com/NivedanR/capstone-erp/internal/repository"
	"github.com/NivedanR/capstone-erp/internal/service"
	"github.com/NivedanR/capstone-erp/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, companyRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb, dispatcher, cfg.AlertEmail)
	stockSvc := service.NewStockService(stockRepo, productRepo, movementRepo)
	warehouseSvc := service.NewWarehouseService(warehouseRepo, stockRepo, stockSvc)
	branchSvc := service.NewBranchService(branchRepo)
	transactionSvc := service.NewTransactionService(transactionRepo, productRepo, movementRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	warehousesH := handler.NewWarehousesHandler(warehouseSvc)
	branchesH := handler.NewBranchesHandler(branchSvc)
	transactionsH := handler.NewTransactionsHandler(transactionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole("admin", "manager", "staff")
		adminOnly := middleware.RequireRole("admin")
		adminOrManager := middleware.RequireRole("admin", "manager")

		v1.GET("/auth/me", authH.Me)

		// Products — everyone reads, admin writes, staff decrements at checkout
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.GetByID)
		v1.GET("/products/sku/:sku", anyRole, productsH.GetBySKU)
		v1.PUT("/products/:id/decrement", anyRole, productsH.Decrement)
		v1.PATCH("/products/:id/quantity", adminOrManager, productsH.Adjust)
		products := v1.Group("/products", adminOnly)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
			products.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Stock — managers run the transfer workflow, staff may look
		stock := v1.Group("/stock")
		{
			stock.GET("", adminOrManager, stockH.List)
			stock.POST("", adminOrManager, stockH.Create)
			stock.GET("/warehouse/:id", anyRole, stockH.ListWarehouseStock)
			stock.GET("/branch/:id", anyRole, stockH.ListBranchStock)
			stock.GET("/warehouse/:id/product/:productId", anyRole, stockH.GetWarehouseProductStock)
			stock.GET("/branch/:id/product/:productId", anyRole, stockH.GetBranchProductStock)
			stock.PUT("/warehouse/:id/product/:productId", adminOrManager, stockH.AssignToWarehouse)
			stock.PUT("/branch/:id/product/:productId", adminOrManager, stockH.AssignToBranch)

			stock.POST("/stock-requests", anyRole, stockH.CreateRequest)
			stock.GET("/stock-requests", anyRole, stockH.ListRequests)
			stock.GET("/stock-requests/:id", anyRole, stockH.GetRequest)
			stock.POST("/stock-requests/:id/approve", adminOrManager, stockH.ApproveRequest)
			stock.POST("/stock-requests/:id/reject", adminOrManager, stockH.RejectRequest)

			stock.GET("/movements/:productId", adminOrManager, stockH.ListMovements)

			stock.GET("/:id", adminOrManager, stockH.GetByID)
			stock.PUT("/:id", adminOrManager, stockH.Update)
			stock.DELETE("/:id", adminOnly, stockH.Delete)
		}

		// Warehouses
		warehouses := v1.Group("/warehouses")
		{
			warehouses.GET("", anyRole, warehousesH.List)
			warehouses.GET("/:id", anyRole, warehousesH.GetByID)
			warehouses.GET("/:id/snapshot", anyRole, warehousesH.Snapshot)
			warehouses.POST("", adminOnly, warehousesH.Create)
			warehouses.PUT("/:id", adminOnly, warehousesH.Update)
			warehouses.DELETE("/:id", adminOnly, warehousesH.Delete)
			warehouses.POST("/:id/products", adminOrManager, warehousesH.AssignProduct)
		}

		// Branches
		branches := v1.Group("/branches")
		{
			branches.GET("", anyRole, branchesH.List)
			branches.GET("/:id", anyRole, branchesH.GetByID)
			branches.POST("", adminOnly, branchesH.Create)
			branches.PUT("/:id", adminOnly, branchesH.Update)
			branches.DELETE("/:id", adminOnly, branchesH.Delete)
		}

		// Transactions + statistics
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", anyRole, transactionsH.Create)
			transactions.GET("", adminOrManager, transactionsH.List)
			transactions.GET("/statistics", adminOrManager, transactionsH.Statistics)
			transactions.GET("/statistics/daily", adminOrManager, transactionsH.SalesByDate)
			transactions.GET("/statistics/top-products", adminOrManager, transactionsH.TopProducts)
			transactions.GET("/statistics/categories", adminOrManager, transactionsH.CategoryDistribution)
			transactions.GET("/order/:orderId", anyRole, transactionsH.GetByOrderID)
			transactions.GET("/branch/:id", anyRole, transactionsH.ListByBranch)
			transactions.GET("/customer/:customerId", anyRole, transactionsH.ListByCustomer)
			transactions.GET("/:id", anyRole, transactionsH.GetByID)
			transactions.PUT("/:id/status", adminOrManager, transactionsH.UpdateStatus)
			transactions.DELETE("/:id", adminOrManager, transactionsH.Cancel)
		}

		// Users & companies — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
		companies := v1.Group("/companies", adminOnly)
		{
			companies.POST("", usersH.CreateCompany)
			companies.GET("", usersH.ListCompanies)
		}

		// Queue operations — admin only
		v1.POST("/queues/:queue/requeue", adminOnly, handler.RequeueDLQ(rdb))
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
