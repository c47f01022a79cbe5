package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookline/booking-api/internal/config"
	"github.com/bookline/booking-api/internal/email"
	authhandler "github.com/bookline/booking-api/internal/handler/auth"
	availabilityhandler "github.com/bookline/booking-api/internal/handler/availability"
	bookinghandler "github.com/bookline/booking-api/internal/handler/booking"
	customerhandler "github.com/bookline/booking-api/internal/handler/customer"
	offeringhandler "github.com/bookline/booking-api/internal/handler/offering"
	shifthandler "github.com/bookline/booking-api/internal/handler/shift"
	"github.com/bookline/booking-api/internal/repository/postgres"
	"github.com/bookline/booking-api/internal/router"
	authservice "github.com/bookline/booking-api/internal/service/auth"
	"github.com/bookline/booking-api/internal/service/availability"
	bookingservice "github.com/bookline/booking-api/internal/service/booking"
	customerservice "github.com/bookline/booking-api/internal/service/customer"
	"github.com/bookline/booking-api/internal/service/notification"
	offeringservice "github.com/bookline/booking-api/internal/service/offering"
	shiftservice "github.com/bookline/booking-api/internal/service/shift"
	"github.com/bookline/booking-api/pkg/auth"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
	"github.com/bookline/booking-api/pkg/security"
)

func main() {
	log := logger.NewLogger(&logger.Config{
		Level:   logger.InfoLevel,
		Service: "booking-api",
	})

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("booking", "api")

	staffRepo := postgres.NewStaffRepository(db)
	offeringRepo := postgres.NewOfferingRepository(db)
	shiftRepo := postgres.NewShiftRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	tokens := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(security.DefaultCost)

	sender := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	notificationSvc := notification.NewService(notificationRepo, sender, log)
	availabilitySvc := availability.NewService(offeringRepo, shiftRepo, bookingRepo)
	bookingSvc := bookingservice.NewService(bookingRepo, offeringRepo, customerRepo, outboxRepo, auditRepo, notificationSvc, log, m)
	offeringSvc := offeringservice.NewService(offeringRepo, staffRepo, auditRepo, log)
	shiftSvc := shiftservice.NewService(shiftRepo, staffRepo, auditRepo, log)
	authSvc := authservice.NewService(staffRepo, hasher, tokens)
	customerSvc := customerservice.NewService(customerRepo)

	engine := router.New(cfg, db, tokens, log, m, router.Handlers{
		Availability: availabilityhandler.NewHandler(availabilitySvc, log, m),
		Booking:      bookinghandler.NewHandler(bookingSvc, log),
		Offering:     offeringhandler.NewHandler(offeringSvc, log),
		Shift:        shifthandler.NewHandler(shiftSvc, log),
		Auth:         authhandler.NewHandler(authSvc, log),
		Customer:     customerhandler.NewHandler(customerSvc, log),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
	log.Info("server stopped")
}
