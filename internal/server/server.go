package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/vterekhov/procurement-backend/internal/cache"
	"github.com/vterekhov/procurement-backend/internal/config"
	"github.com/vterekhov/procurement-backend/internal/handler"
	"github.com/vterekhov/procurement-backend/internal/metrics"
	appmw "github.com/vterekhov/procurement-backend/internal/middleware"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"github.com/vterekhov/procurement-backend/internal/service"
	"github.com/vterekhov/procurement-backend/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(
	db *gorm.DB,
	cfg *config.Config,
	tasks service.TaskQueue,
	status cache.TaskStatusStore,
	files storage.FileStore,
	m *metrics.AppMetrics,
	log *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	e.Use(appmw.Metrics(m))

	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	contactRepo := repository.NewContactRepository(db)

	notifySvc := service.NewNotificationService(tasks, log)
	authSvc := service.NewAuthService(userRepo, notifySvc, cfg, log)
	socialSvc := service.NewSocialService(cfg, authSvc, log)
	catalogSvc := service.NewCatalogService(catalogRepo, supplierRepo)
	importSvc := service.NewImportService(supplierRepo, catalogRepo, m, log)
	partnerSvc := service.NewPartnerService(supplierRepo)
	orderSvc := service.NewOrderService(orderRepo, catalogRepo, contactRepo, userRepo, supplierRepo, notifySvc, m, log)
	contactSvc := service.NewContactService(contactRepo)
	avatarSvc := service.NewAvatarService(files, tasks, status, log)

	authHandler := handler.NewAuthHandler(authSvc, log)
	socialHandler := handler.NewSocialHandler(socialSvc, log)
	productHandler := handler.NewProductHandler(catalogSvc, log)
	partnerHandler := handler.NewPartnerHandler(partnerSvc, importSvc, catalogSvc, orderSvc, log)
	basketHandler := handler.NewBasketHandler(orderSvc, log)
	orderHandler := handler.NewOrderHandler(orderSvc, log)
	contactHandler := handler.NewContactHandler(contactSvc, log)
	avatarHandler := handler.NewAvatarHandler(avatarSvc, log)

	authMw := appmw.NewAuthMiddleware(cfg.JWTSecret, userRepo)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.GET("/auth/confirm-email", authHandler.ConfirmEmail)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me, authMw.RequireAuth)
	api.PUT("/auth/me", authHandler.UpdateMe, authMw.RequireAuth)

	api.GET("/social/providers", socialHandler.Providers)
	api.GET("/social/:provider/login", socialHandler.AuthURL)
	api.GET("/social/:provider/callback", socialHandler.Callback)

	api.GET("/products", productHandler.ListOffers)
	api.GET("/products/:id", productHandler.GetOffer)
	api.GET("/categories", productHandler.ListCategories)
	api.GET("/suppliers", productHandler.ListSuppliers)

	partner := api.Group("/partner", authMw.RequireAuth, authMw.RequireRole(model.RolePartner, model.RoleAdmin))
	partner.POST("/price-list", partnerHandler.ImportPriceList)
	partner.GET("/state", partnerHandler.GetState)
	partner.PATCH("/state", partnerHandler.SetState)
	partner.GET("/offers", partnerHandler.ListOffers)
	partner.GET("/orders", partnerHandler.ListOrders)

	basket := api.Group("/basket", authMw.RequireAuth)
	basket.GET("", basketHandler.Get)
	basket.POST("/items", basketHandler.AddItem)
	basket.PATCH("/items/:id", basketHandler.UpdateItem)
	basket.DELETE("/items/:id", basketHandler.RemoveItem)
	basket.DELETE("", basketHandler.Clear)

	orders := api.Group("/orders", authMw.RequireAuth)
	orders.POST("/checkout", orderHandler.Checkout)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/status", orderHandler.AdvanceStatus, authMw.RequireRole(model.RolePartner, model.RoleAdmin))

	contacts := api.Group("/contacts", authMw.RequireAuth)
	contacts.POST("", contactHandler.Create)
	contacts.GET("", contactHandler.List)
	contacts.PUT("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Delete)

	avatar := api.Group("/user/avatar", authMw.RequireAuth)
	avatar.POST("", avatarHandler.Upload)
	avatar.GET("/status/:task_id", avatarHandler.Status)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
