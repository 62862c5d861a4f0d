package main

import (
	"booking-service/internal/handler"
	"booking-service/internal/middleware"
	"booking-service/internal/model"
	"booking-service/pkg/config"
	"booking-service/pkg/database"
	"booking-service/pkg/jwtutil"
	"booking-service/pkg/logger"
	"booking-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting booking service...", cfg.LogFields()...)

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host), zap.String("db_name", cfg.DB.DBName))

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.LanguageMiddleware(cfg.DefaultLanguage))

	// Public routes
	e.GET("/health", handler.Health)
	e.GET("/metrics", prometheus.Handler())

	auth := e.Group("/auth")
	auth.POST("/admin/login", handler.LoginAdmin)
	auth.POST("/dealer/login", handler.LoginDealer)
	auth.POST("/solution-partner/login", handler.LoginSolutionPartner)
	auth.POST("/sales-partner/login", handler.LoginSalesPartner)
	auth.POST("/solution-partner/register", handler.RegisterSolutionPartner)
	auth.POST("/sales-partner/register", handler.RegisterSalesPartner)

	// Authenticated routes
	api := e.Group("")
	api.Use(middleware.AuthMiddleware)
	api.GET("/me", handler.Me)

	registerAdminRoutes(api)
	registerSupplierRoutes(api)
	registerDealerRoutes(api)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

// registerAdminRoutes wires the back-office surface: dealers, partner review,
// reference geography, permissions, commissions and the audit trail.
func registerAdminRoutes(api *echo.Group) {
	admin := api.Group("/admin", middleware.RequireRole("admin"))

	dealers := admin.Group("/dealers")
	dealers.GET("", handler.FindAllDealers)
	dealers.GET("/:id", handler.FindOneDealer)
	dealers.POST("", handler.CreateDealer)
	dealers.PUT("/:id", handler.UpdateDealer)
	dealers.DELETE("/:id", handler.DeleteDealer)
	dealers.GET("/:id/users", handler.ListDealerUsers)
	dealers.POST("/:id/users", handler.CreateDealerUser)
	dealers.PUT("/:id/users/:user_id", handler.UpdateDealerUser)
	dealers.DELETE("/:id/users/:user_id", handler.DeleteDealerUser)
	dealers.GET("/:id/commissions", handler.ListDealerCommissions)
	dealers.GET("/:id/documents", handler.ListDealerDocuments)
	dealers.POST("/:id/documents", handler.CreateDealerDocument)
	dealers.DELETE("/:id/documents/:document_id", handler.DeleteDealerDocument)

	commissions := admin.Group("/commissions")
	commissions.POST("", handler.CreateDealerCommission)
	commissions.PUT("/:id", handler.UpdateDealerCommission)
	commissions.DELETE("/:id", handler.DeleteDealerCommission)

	partners := admin.Group("/solution-partners")
	partners.GET("", handler.FindAllSolutionPartners)
	partners.PUT("/:id", handler.UpdateSolutionPartner)
	partners.PUT("/:id/approve", handler.ApproveSolutionPartner)

	salesPartners := admin.Group("/sales-partners")
	salesPartners.GET("", handler.FindAllSalesPartners)
	salesPartners.PUT("/:id", handler.UpdateSalesPartner)
	salesPartners.PUT("/:id/approve", handler.ApproveSalesPartner)

	countries := admin.Group("/countries")
	countries.GET("", handler.FindAllCountries)
	countries.POST("", handler.CreateCountry)
	countries.PUT("/:id", handler.UpdateCountry)
	countries.DELETE("/:id", handler.DeleteCountry)

	cities := admin.Group("/cities")
	cities.GET("", handler.FindAllCities)
	cities.GET("/:id", handler.FindOneCity)
	cities.POST("", handler.CreateCity)
	cities.PUT("/:id", handler.UpdateCity)
	cities.DELETE("/:id", handler.DeleteCity)
	cities.GET("/:id/districts", handler.ListCityDistricts)

	districts := admin.Group("/districts")
	districts.POST("", handler.CreateDistrict)
	districts.DELETE("/:id", handler.DeleteDistrict)

	// Listing review decisions
	admin.PUT("/hotels/:id/approve", handler.ApproveHotel)
	admin.PUT("/tours/:id/approve", handler.ApproveTour)
	admin.PUT("/activities/:id/approve", handler.ApproveActivity)
	admin.PUT("/car-rentals/:id/approve", handler.ApproveCarRental)
	admin.PUT("/visas/:id/approve", handler.ApproveVisa)

	admin.GET("/permissions/:target/:target_id", handler.GetPermissions)
	admin.PUT("/permissions/:target/:target_id", handler.UpdatePermission)

	admin.GET("/logs", handler.FindAllLogs)
	admin.GET("/logs/target/:target_id", handler.FindRecentLogsForTarget)
}

// registerSupplierRoutes wires the solution partner surface: listing CRUD,
// sub-resources and approval submission.
func registerSupplierRoutes(api *echo.Group) {
	sp := api.Group("/solution-partner", middleware.RequireRole("solution_partner", "admin"))

	hotels := sp.Group("/hotels")
	hotels.GET("", handler.FindAllHotels)
	hotels.GET("/:id", handler.FindOneHotel)
	hotels.POST("", handler.CreateHotel)
	hotels.PUT("/:id", handler.UpdateHotel)
	hotels.DELETE("/:id", handler.DeleteHotel)
	hotels.POST("/:id/send-for-approval", handler.SendHotelForApproval)
	hotels.GET("/:id/rooms", handler.ListHotelRooms)
	hotels.POST("/:id/rooms", handler.CreateHotelRoom)
	hotels.DELETE("/:id/rooms/:room_id", handler.DeleteHotelRoom)
	hotels.POST("/:id/features", handler.CreateHotelFeature)
	hotels.DELETE("/:id/features/:feature_id", handler.DeleteHotelFeature)
	hotels.POST("/:id/images", handler.CreateHotelImage)
	hotels.DELETE("/:id/images/:image_id", handler.DeleteHotelImage)
	hotels.POST("/:id/galleries", handler.CreateHotelGallery)
	hotels.DELETE("/:id/galleries/:gallery_id", handler.DeleteHotelGallery)
	hotels.POST("/:id/galleries/bulk-delete", handler.BulkDeleteHotelGalleries)

	tours := sp.Group("/tours")
	tours.GET("", handler.FindAllTours)
	tours.GET("/:id", handler.FindOneTour)
	tours.POST("", handler.CreateTour)
	tours.PUT("/:id", handler.UpdateTour)
	tours.DELETE("/:id", handler.DeleteTour)
	tours.POST("/:id/send-for-approval", handler.SendTourForApproval)
	tours.POST("/:id/packages", handler.CreateTourPackage)
	tours.PUT("/:id/packages/:package_id/quota", handler.AdjustTourPackageQuota)

	activities := sp.Group("/activities")
	activities.GET("", handler.FindAllActivities)
	activities.GET("/:id", handler.FindOneActivity)
	activities.POST("", handler.CreateActivity)
	activities.PUT("/:id", handler.UpdateActivity)
	activities.DELETE("/:id", handler.DeleteActivity)
	activities.POST("/:id/send-for-approval", handler.SendActivityForApproval)
	activities.POST("/:id/galleries", handler.CreateActivityGallery)
	activities.DELETE("/:id/galleries/:gallery_id", handler.DeleteActivityGallery)
	activities.POST("/:id/packages", handler.CreateActivityPackage)
	activities.DELETE("/:id/packages/:package_id", handler.DeleteActivityPackage)

	carRentals := sp.Group("/car-rentals")
	carRentals.GET("", handler.FindAllCarRentals)
	carRentals.GET("/:id", handler.FindOneCarRental)
	carRentals.POST("", handler.CreateCarRental)
	carRentals.PUT("/:id", handler.UpdateCarRental)
	carRentals.DELETE("/:id", handler.DeleteCarRental)
	carRentals.POST("/:id/send-for-approval", handler.SendCarRentalForApproval)

	visas := sp.Group("/visas")
	visas.GET("", handler.FindAllVisas)
	visas.GET("/:id", handler.FindOneVisa)
	visas.POST("", handler.CreateVisa)
	visas.PUT("/:id", handler.UpdateVisa)
	visas.DELETE("/:id", handler.DeleteVisa)
	visas.POST("/:id/send-for-approval", handler.SendVisaForApproval)
}

// registerDealerRoutes wires the dealer staff surface: own staff management
// and commission visibility.
func registerDealerRoutes(api *echo.Group) {
	dealer := api.Group("/dealer", middleware.RequireRole("dealer_user", "admin"))

	dealer.GET("/users", handler.ListDealerUsers)
	dealer.POST("/users", handler.CreateDealerUser)
	dealer.PUT("/users/:user_id", handler.UpdateDealerUser)
	dealer.DELETE("/users/:user_id", handler.DeleteDealerUser)
	dealer.GET("/commissions/:id", handler.ListDealerCommissions)
	dealer.GET("/documents", handler.ListDealerDocuments)
	dealer.POST("/documents", handler.CreateDealerDocument)
	dealer.DELETE("/documents/:document_id", handler.DeleteDealerDocument)
}
