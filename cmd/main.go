package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	cancelBookingHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/get_customer_bookings"
	runWaitlistSweepHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/run_waitlist_sweep"
	webhookHandler "github.com/m04kA/SMC-ChatBookingService/internal/api/handlers/webhook"
	"github.com/m04kA/SMC-ChatBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ChatBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/catalog"
	sessionRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/session"
	waitlistRepo "github.com/m04kA/SMC-ChatBookingService/internal/infra/storage/waitlist"
	messengerClient "github.com/m04kA/SMC-ChatBookingService/internal/integrations/messenger"
	nluClient "github.com/m04kA/SMC-ChatBookingService/internal/integrations/nlu"
	bookingsService "github.com/m04kA/SMC-ChatBookingService/internal/service/bookings"
	dialogueService "github.com/m04kA/SMC-ChatBookingService/internal/service/dialogue"
	waitlistService "github.com/m04kA/SMC-ChatBookingService/internal/service/waitlist"
	allocateBookingUC "github.com/m04kA/SMC-ChatBookingService/internal/usecase/allocate_booking"
	findSlotsUC "github.com/m04kA/SMC-ChatBookingService/internal/usecase/find_slots"
	"github.com/m04kA/SMC-ChatBookingService/pkg/keymutex"
	"github.com/m04kA/SMC-ChatBookingService/pkg/logger"
	"github.com/m04kA/SMC-ChatBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ChatBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ChatBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	nlu := nluClient.NewClient(cfg.NLU.URL, time.Duration(cfg.NLU.Timeout)*time.Second, log)
	messenger := messengerClient.NewClient(cfg.Messenger.URL, time.Duration(cfg.Messenger.Timeout)*time.Second, log)
	log.Info("Integration clients initialized (NLU=%s, Messenger=%s)", cfg.NLU.URL, cfg.Messenger.URL)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	sessionRepository := sessionRepo.NewRepository(db)
	waitlistRepository := waitlistRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Инициализируем use cases
	findSlots := findSlotsUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		cfg.Dialogue.SlotGranularityMinutes,
		cfg.Dialogue.DefaultDurationMinutes,
		log,
	)
	// Очередь ожидания создается до аллокатора: успешное бронирование
	// закрывает живую запись клиента в очереди
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		findSlots,
		messenger,
		txMgr,
		cfg.Dialogue.WaitlistNotifyTTLMinutes,
		log,
		metricsCollector,
	)
	allocateBooking := allocateBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		txMgr,
		messenger,
		waitlistSvc,
		cfg.Dialogue.DefaultDurationMinutes,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	dialogueEngine := dialogueService.NewEngine(
		sessionRepository,
		catalogRepository,
		findSlots,
		allocateBooking,
		waitlistSvc,
		nlu,
		keymutex.New(cfg.Dialogue.SessionLockStripes),
		cfg.Dialogue.SessionTTLMinutes,
		cfg.Dialogue.MaxOffers,
		cfg.Dialogue.LanguageConfidence,
		log,
		metricsCollector,
	)

	// Инициализируем handlers
	webhook := webhookHandler.NewHandler(dialogueEngine, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(findSlots, log)
	createBooking := createBookingHandler.NewHandler(allocateBooking, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	runWaitlistSweep := runWaitlistSweepHandler.NewHandler(waitlistSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Публичные маршруты: webhook приходит от доверенного транспорта чата,
	// sweep дергает внешний планировщик
	api.HandleFunc("/webhook/events", webhook.Handle).Methods(http.MethodPost)
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/waitlist/sweep", runWaitlistSweep.Handle).Methods(http.MethodPost)

	// Защищённые маршруты: требуют X-Customer-ID
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// Фоновые проходы: очередь ожидания и истечение сессий
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Sweeps.WaitlistSpec, func() {
		if err := waitlistSvc.RunPendingSweeps(context.Background()); err != nil {
			log.Error("Waitlist sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Failed to schedule waitlist sweep: %v", err)
	}
	if _, err := scheduler.AddFunc(cfg.Sweeps.SessionExpirySpec, func() {
		if _, err := dialogueEngine.RunExpirySweep(context.Background()); err != nil {
			log.Error("Session expiry sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Failed to schedule session expiry sweep: %v", err)
	}
	scheduler.Start()
	log.Info("Background sweeps scheduled (waitlist=%q, sessions=%q)",
		cfg.Sweeps.WaitlistSpec, cfg.Sweeps.SessionExpirySpec)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()
	log.Info("Background sweeps stopped")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
