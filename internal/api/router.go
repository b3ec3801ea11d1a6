package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pinewood/hotel-booking-backend/internal/amenity"
	amenityHttp "github.com/pinewood/hotel-booking-backend/internal/amenity/http"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/billing"
	billingHttp "github.com/pinewood/hotel-booking-backend/internal/billing/http"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	bookingHttp "github.com/pinewood/hotel-booking-backend/internal/booking/http"
	"github.com/pinewood/hotel-booking-backend/internal/invoice"
	invoiceHttp "github.com/pinewood/hotel-booking-backend/internal/invoice/http"
	"github.com/pinewood/hotel-booking-backend/internal/payment"
	paymentHttp "github.com/pinewood/hotel-booking-backend/internal/payment/http"
	"github.com/pinewood/hotel-booking-backend/internal/photo"
	photoHttp "github.com/pinewood/hotel-booking-backend/internal/photo/http"
	"github.com/pinewood/hotel-booking-backend/internal/room"
	roomHttp "github.com/pinewood/hotel-booking-backend/internal/room/http"
	"github.com/pinewood/hotel-booking-backend/internal/user"
	userHttp "github.com/pinewood/hotel-booking-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService    user.Service
	RoomService    room.Service
	AmenityService amenity.Service
	BookingService booking.Service
	BillingService billing.Service
	PaymentService payment.Service
	InvoiceService invoice.Service
	PhotoService   photo.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles global middleware (logging, recovery, CORS) and
// registers every module's routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	staffMiddleware := RequireStaff(cfg.UserService)
	adminMiddleware := RequireAdmin(cfg.UserService)

	userHandler := userHttp.NewUserHandler(cfg.UserService, cfg.JWTManager)
	roomHandler := roomHttp.NewHandler(cfg.RoomService, cfg.BookingService)
	amenityHandler := amenityHttp.NewHandler(cfg.AmenityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	billingHandler := billingHttp.NewHandler(cfg.BillingService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentService)
	invoiceHandler := invoiceHttp.NewHandler(cfg.InvoiceService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware, staffMiddleware)
		amenityHttp.RegisterRoutes(v1, amenityHandler, authMiddleware, staffMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, staffMiddleware)
		billingHttp.RegisterRoutes(v1, billingHandler, authMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, authMiddleware)
		invoiceHttp.RegisterRoutes(v1, invoiceHandler, authMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware, staffMiddleware)
	}

	return r
}
