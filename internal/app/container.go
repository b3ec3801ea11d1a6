package app

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pinewood/hotel-booking-backend/internal/amenity"
	"github.com/pinewood/hotel-booking-backend/internal/api"
	"github.com/pinewood/hotel-booking-backend/internal/auth"
	"github.com/pinewood/hotel-booking-backend/internal/billing"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/config"
	"github.com/pinewood/hotel-booking-backend/internal/invoice"
	"github.com/pinewood/hotel-booking-backend/internal/notify"
	"github.com/pinewood/hotel-booking-backend/internal/payment"
	"github.com/pinewood/hotel-booking-backend/internal/photo"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/storage"
	"github.com/pinewood/hotel-booking-backend/internal/room"
	"github.com/pinewood/hotel-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoragePath  string
	AMQPURL      string

	GatewayMode    config.GatewayMode
	GatewayBaseURL string
	GatewayStoreID string
	GatewaySecret  string
	GatewayTimeout time.Duration
	PublicBaseURL  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	var notifier notify.Publisher
	if cfg.AMQPURL != "" {
		notifier = notify.NewAMQPPublisher(cfg.AMQPURL)
	} else {
		log.Println("app: AMQP_URL not set, event publishing disabled")
		notifier = notify.NewNoop()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Room Module
	roomRepo := room.NewPgxRepository(cfg.DBPool)
	roomService := room.NewService(roomRepo)

	// Amenity Module
	amenityRepo := amenity.NewPgxRepository(cfg.DBPool)
	amenityService := amenity.NewService(amenityRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, roomService, notifier)

	// Billing Module
	billingRepo := billing.NewPgxRepository(cfg.DBPool)
	billingService := billing.NewService(billingRepo, bookingService, amenityService, roomService)

	// Payment Module
	var gateway payment.Gateway
	if cfg.GatewayMode == config.GatewayModeLive {
		gateway = payment.NewHTTPGateway(payment.GatewayConfig{
			BaseURL: cfg.GatewayBaseURL,
			StoreID: cfg.GatewayStoreID,
			Secret:  cfg.GatewaySecret,
			Timeout: cfg.GatewayTimeout,
		})
	} else {
		gateway = payment.NewDemoGateway()
	}
	callbacks := payment.CallbackURLs{
		Success: cfg.PublicBaseURL + "/v1/payments/gateway/success",
		Fail:    cfg.PublicBaseURL + "/v1/payments/gateway/fail",
		Cancel:  cfg.PublicBaseURL + "/v1/payments/gateway/cancel",
	}
	paymentRepo := payment.NewPgxRepository(cfg.DBPool)
	paymentService := payment.NewService(paymentRepo, bookingService, billingService, gateway, callbacks, notifier)

	// Invoice Module
	invoiceService := invoice.NewService(bookingService, billingService, paymentService)

	// Photo Module
	photoRepo := photo.NewPgxRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, roomService, store)

	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		RoomService:    roomService,
		AmenityService: amenityService,
		BookingService: bookingService,
		BillingService: billingService,
		PaymentService: paymentService,
		InvoiceService: invoiceService,
		PhotoService:   photoService,
		JWTManager:     jwtManager,
	}

	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
