package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/osteoclinic/clinic/internal/config"
	"github.com/osteoclinic/clinic/internal/domain/event"
	"github.com/osteoclinic/clinic/internal/domain/examination"
	"github.com/osteoclinic/clinic/internal/domain/invoicing"
	"github.com/osteoclinic/clinic/internal/domain/office"
	"github.com/osteoclinic/clinic/internal/domain/patient"
	"github.com/osteoclinic/clinic/internal/platform/auth"
	"github.com/osteoclinic/clinic/internal/platform/db"
	"github.com/osteoclinic/clinic/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Osteopathy practice management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a development database with sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

			officeRepo := office.NewPGRepository(pool)
			invoiceRepo := invoicing.NewPGRepository(pool)
			officeSvc := office.NewService(officeRepo, invoiceRepo, logger)

			settings, err := officeSvc.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("load office settings: %w", err)
			}
			if settings.InvoiceOfficeHeader == "" {
				settings.InvoiceOfficeHeader = "Cabinet d'Ostéopathie"
				settings.OfficeAddressStreet = "12 rue des Lices"
				settings.OfficeAddressZipcode = "49100"
				settings.OfficeAddressCity = "Angers"
				settings.Currency = cfg.DefaultCurrency
				if _, err := officeSvc.UpdateSettings(ctx, settings); err != nil {
					return fmt.Errorf("seed office settings: %w", err)
				}
				fmt.Println("Seeded office settings.")
			}

			patientSvc := patient.NewService(patient.NewPGRepository(pool))
			_, existing, err := patientSvc.List(ctx, 1, 0)
			if err != nil {
				return fmt.Errorf("count patients: %w", err)
			}
			if existing > 0 {
				fmt.Printf("Database already has %d patient(s), skipping patient seed.\n", existing)
				return nil
			}

			samples := []*patient.Patient{
				{
					FamilyName: "Dupont", FirstName: "Claire",
					BirthDate:     time.Date(1988, 5, 12, 0, 0, 0, 0, time.UTC),
					AddressStreet: "3 avenue Pasteur", AddressZipcode: "49100", AddressCity: "Angers",
				},
				{
					FamilyName: "Martin", FirstName: "Paul",
					BirthDate:     time.Date(1975, 3, 2, 0, 0, 0, 0, time.UTC),
					AddressStreet: "27 boulevard Foch", AddressZipcode: "49000", AddressCity: "Angers",
				},
				{
					FamilyName: "Leroy", OriginalName: "Bernard", FirstName: "Anne",
					BirthDate:     time.Date(1992, 11, 30, 0, 0, 0, 0, time.UTC),
					AddressStreet: "8 rue Saint-Aubin", AddressZipcode: "49100", AddressCity: "Angers",
				},
			}
			for _, p := range samples {
				if err := patientSvc.Create(ctx, p); err != nil {
					return fmt.Errorf("seed patient %s: %w", p.FamilyName, err)
				}
			}
			fmt.Printf("Seeded %d patient(s).\n", len(samples))
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() && cfg.JWTSecret == "" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.JWTSecret),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// -- Repositories --
	patientRepo := patient.NewPGRepository(pool)
	examRepo := examination.NewPGRepository(pool)
	invoiceRepo := invoicing.NewPGRepository(pool)
	officeRepo := office.NewPGRepository(pool)
	eventRepo := event.NewPGRepository(pool)

	// -- Services --
	eventSvc := event.NewService(eventRepo, logger)

	patientSvc := patient.NewService(patientRepo)
	patientHandler := patient.NewHandler(patientSvc)
	patientHandler.RegisterRoutes(apiV1)

	examSvc := examination.NewService(examRepo, patientRepo, eventSvc, logger)
	examHandler := examination.NewHandler(examSvc)
	examHandler.RegisterRoutes(apiV1)

	// Sequence overrides are validated against numbers already issued, so
	// the office service reads from the invoice repository.
	officeSvc := office.NewService(officeRepo, invoiceRepo, logger)
	officeHandler := office.NewHandler(officeSvc)
	officeHandler.RegisterRoutes(apiV1)

	allocator := invoicing.NewSequenceAllocator(officeRepo)
	builder := invoicing.NewBuilder(allocator)
	runner := invoicing.NewPGTxRunner(pool, logger)
	invoiceSvc := invoicing.NewService(
		invoiceRepo, examRepo, patientRepo, officeRepo,
		builder, runner, eventSvc, logger,
	)
	invoiceHandler := invoicing.NewHandler(invoiceSvc)
	invoiceHandler.RegisterRoutes(apiV1)

	eventHandler := event.NewHandler(eventSvc)
	eventHandler.RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
