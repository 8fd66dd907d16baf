package main

import (
	"os"

	"github.com/Maxito7/hotel_frontdesk/internal/application"
	"github.com/Maxito7/hotel_frontdesk/internal/config"
	"github.com/Maxito7/hotel_frontdesk/internal/email"
	"github.com/Maxito7/hotel_frontdesk/internal/infrastructure/db"
	"github.com/Maxito7/hotel_frontdesk/internal/infrastructure/repository"
	handlers "github.com/Maxito7/hotel_frontdesk/internal/interfaces/http"
	"github.com/Maxito7/hotel_frontdesk/internal/notify"
	"github.com/Maxito7/hotel_frontdesk/internal/scheduler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("error loading config")
	}

	log := zerolog.New(os.Stderr).Level(cfg.ZerologLevel()).With().Timestamp().Logger()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer conn.Close()

	if err := db.RunMigrations(conn); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Staff-ID",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))

	// Email client
	var emailClient *email.Client
	if cfg.EmailEnabled() {
		emailClient, err = email.NewClient(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUsername,
			cfg.SMTPPassword,
			"Front Desk",
			cfg.EmailFrom,
		)
		if err != nil {
			log.Warn().Err(err).Msg("email client initialization failed, continuing without email")
			emailClient = nil
		}
	}

	// Repositories
	reservationRepo := repository.NewReservationRepository(conn)
	roomRepo := repository.NewRoomRepository(conn)
	ledgerRepo := repository.NewLedgerRepository(conn)
	shiftRepo := repository.NewShiftRepository(conn)
	staffRepo := repository.NewStaffRepository(conn)

	// Services
	broadcaster := notify.NewBroadcaster(log)
	guard := application.NewShiftGuard(shiftRepo)
	detector := application.NewConflictDetector(reservationRepo)
	reservationService := application.NewReservationService(
		reservationRepo, roomRepo, ledgerRepo, guard, detector, broadcaster, emailClient, log)
	groupService := application.NewGroupService(reservationRepo, reservationService, guard, log)
	allocationService := application.NewAllocationService(
		reservationRepo, roomRepo, ledgerRepo, guard, detector, log)

	// Handlers
	reservationHandler := handlers.NewReservationHandler(reservationService, allocationService, staffRepo)
	groupHandler := handlers.NewGroupHandler(groupService, staffRepo)
	roomHandler := handlers.NewRoomHandler(roomRepo)

	api := app.Group("/api")

	rooms := api.Group("/rooms")
	rooms.Get("/", roomHandler.GetAll)
	rooms.Get("/availability", roomHandler.Availability)
	rooms.Get("/:id", roomHandler.GetByID)
	rooms.Patch("/:id/cleanliness", roomHandler.UpdateCleanliness)

	reservations := api.Group("/reservations")
	reservations.Post("/", reservationHandler.Create)
	reservations.Post("/swap", reservationHandler.Swap)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Put("/:id", reservationHandler.Update)
	reservations.Patch("/:id/status", reservationHandler.UpdateStatus)
	reservations.Post("/:id/cancel", reservationHandler.Cancel)
	reservations.Post("/:id/reopen", reservationHandler.Reopen)
	reservations.Delete("/:id", reservationHandler.Delete)
	reservations.Post("/:id/payments", reservationHandler.RecordPayment)
	reservations.Post("/:id/extend", reservationHandler.Extend)
	reservations.Get("/:id/invoice", reservationHandler.Invoice)

	groups := api.Group("/groups")
	groups.Post("/", groupHandler.Create)
	groups.Get("/:id/members", groupHandler.Members)
	groups.Post("/:id/discount", groupHandler.ApplyDiscount)
	groups.Put("/:id", groupHandler.Edit)
	groups.Delete("/:id", groupHandler.Delete)

	// Background no-show sweeper
	noShowScheduler := scheduler.NewNoShowScheduler(reservationRepo, cfg.NoShowHour, log)
	noShowScheduler.Start()
	defer noShowScheduler.Stop()

	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}
}
