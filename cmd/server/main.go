package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/handler"
	"github.com/iliyamo/restaurant-booking/internal/queue"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/router"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

type stores struct {
	bookings  service.BookingStore
	locations service.LocationStore
	tables    service.TableStore
	customers service.CustomerStore
	users     handler.UserStore
	tokens    handler.TokenStore
	close     func()
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.Storage == config.StorageMemory {
		log.Printf("storage: in-memory (data is lost on restart)")
		return stores{
			bookings:  repository.NewMemoryBookingStore(),
			locations: repository.NewMemoryLocationStore(),
			tables:    repository.NewMemoryTableStore(),
			customers: repository.NewMemoryCustomerStore(),
			users:     repository.NewMemoryUserStore(),
			tokens:    repository.NewMemoryTokenStore(),
			close:     func() {},
		}, nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return stores{}, err
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, err
		}
	}
	log.Printf("storage: mysql %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	return stores{
		bookings:  repository.NewBookingRepo(db),
		locations: repository.NewLocationRepo(db),
		tables:    repository.NewTableRepo(db),
		customers: repository.NewCustomerRepo(db),
		users:     repository.NewUserRepo(db),
		tokens:    repository.NewTokenRepo(db),
		close:     func() { _ = db.Close() },
	}, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	amqpCfg := config.LoadAMQPConfig()
	var publisher service.Publisher = service.NoopPublisher{}
	if amqpCfg.Enabled {
		publisher = service.NewAMQPPublisher(amqpCfg)
		mailCfg := config.LoadMailConfig()
		go queue.StartNotificationConsumer(ctx, amqpCfg, service.NewMailer(mailCfg), mailCfg.LogPath)
	}

	venue := service.NewVenue(st.locations, st.tables, cfg.Booking.DefaultCapacity)
	bookings := service.NewBookingService(st.bookings, venue, publisher, cfg.Booking)
	venues := service.NewVenueService(st.locations, st.tables, cfg.Booking.DefaultCapacity)
	customers := service.NewCustomerService(st.customers, st.bookings)
	analytics := service.NewAnalyticsService(st.bookings, cfg.Booking)

	if err := handler.SeedAdmin(ctx, cfg, st.users); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if cfg.Booking.SeedDemo {
		locs, err := venues.EnsureDefaultLocation(ctx, "Main Dining Room")
		if err != nil {
			log.Fatalf("seed location: %v", err)
		}
		n, err := bookings.SeedDemo(ctx, locs)
		if err != nil {
			log.Fatalf("seed demo bookings: %v", err)
		}
		log.Printf("seeded %d demo bookings", n)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	auth := handler.NewAuthHandler(cfg, st.users, st.tokens)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(bookings, venues), rdb, config.LoadCacheConfig(), config.LoadRateLimitConfig())
	router.RegisterPortal(e, router.Portal{
		Auth:      auth,
		Bookings:  handler.NewBookingHandler(bookings),
		Dashboard: handler.NewDashboardHandler(analytics),
		Venues:    handler.NewVenueHandler(venues),
		Customers: handler.NewCustomerHandler(customers),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
