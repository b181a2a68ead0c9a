package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meinhoongagan/careforme-admin/auth"
	"github.com/meinhoongagan/careforme-admin/config"
	"github.com/meinhoongagan/careforme-admin/controllers"
	"github.com/meinhoongagan/careforme-admin/cron"
	"github.com/meinhoongagan/careforme-admin/db"
	"github.com/meinhoongagan/careforme-admin/directory"
	"github.com/meinhoongagan/careforme-admin/logger"
	"github.com/meinhoongagan/careforme-admin/redis"
	"github.com/meinhoongagan/careforme-admin/routes"
	"github.com/meinhoongagan/careforme-admin/services"
	"github.com/meinhoongagan/careforme-admin/store"
	"github.com/meinhoongagan/careforme-admin/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const devAdminPassword = "admin123"

func main() {
	rootCmd := &cobra.Command{
		Use:   "careforme-admin",
		Short: "CareForMe doctor directory admin API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := db.Migrate(gdb); err != nil {
				return err
			}
			log.Info().Msg("migrations applied successfully")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var skipDoctors bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and the sample doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			password := cfg.AdminPassword
			if password == "" && cfg.IsDev() {
				password = devAdminPassword
			}
			ctx := cmd.Context()
			if err := db.SeedAdmin(ctx, gdb, cfg.AdminEmail, password); err != nil {
				return err
			}
			log.Info().Str("email", cfg.AdminEmail).Msg("admin account ready")

			if skipDoctors {
				return nil
			}
			n, err := db.SeedDoctors(ctx, store.NewPostgresStore(gdb), time.Now())
			if err != nil {
				return err
			}
			log.Info().Int("added", n).Msg("sample doctors seeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipDoctors, "skip-doctors", false, "only create the admin account")
	return cmd
}

func exportCmd() *cobra.Command {
	var output, search, specialty, city, availability string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the doctors matching the filters as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := directory.NoFilter()
			f.Search = search
			if specialty != "" {
				f.Specialty = specialty
			}
			if city != "" {
				f.City = city
			}
			a, err := directory.ParseAvailability(availability)
			if err != nil {
				return err
			}
			f.Availability = a

			_, log, gdb, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			doctors := services.NewDoctorService(store.NewPostgresStore(gdb), redis.NewMemory(), nil, log)
			list, err := doctors.List(cmd.Context(), f)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				out = file
			}
			if err := directory.WriteCSV(out, list); err != nil {
				return err
			}
			log.Info().Int("rows", len(list)).Str("output", output).Msg("export finished")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	cmd.Flags().StringVar(&search, "q", "", "search name, email or city")
	cmd.Flags().StringVar(&specialty, "specialty", "", "exact specialty")
	cmd.Flags().StringVar(&city, "city", "", "exact city")
	cmd.Flags().StringVar(&availability, "availability", "all", "all, available, unavailable or suspended")
	return cmd
}

// bootstrap loads the config and opens the database. Logs go to stderr so
// export output on stdout stays clean.
func bootstrap() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log := logger.New(cfg.Env).Output(zerolog.ConsoleWriter{Out: os.Stderr})
	gdb, err := db.Open(cfg.DatabaseURL, cfg.IsDev(), log)
	if err != nil {
		return nil, log, nil, err
	}
	return cfg, log, gdb, nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)

	gdb, err := db.Open(cfg.DatabaseURL, cfg.IsDev(), log)
	if err != nil {
		return err
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	ctx := context.Background()
	cache := openCache(ctx, cfg.RedisAddr, log)

	var mailer utils.Mailer
	if cfg.MailEnabled() {
		mailer = utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass)
	} else {
		log.Warn().Msg("SMTP not configured, notification emails disabled")
	}

	var uploader utils.Uploader
	if cfg.CloudinaryEnabled() {
		cld, err := utils.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadPreset)
		if err != nil {
			log.Warn().Err(err).Msg("cloudinary unavailable, picture uploads disabled")
		} else {
			uploader = cld
		}
	}

	authSvc := auth.NewService(auth.NewGormUserRepository(gdb), cache, auth.Config{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, log)
	settingsSvc := services.NewSettingsService(services.NewGormSettingsRepository(gdb), mailer, log)
	doctorSvc := services.NewDoctorService(store.NewPostgresStore(gdb), cache, settingsSvc, log)
	reportSvc := services.NewReportService(doctorSvc, cache, cfg.DashboardCacheTTL, settingsSvc, mailer, log)

	unsubscribe := authSvc.Subscribe(func(s *auth.Session) {
		if s == nil {
			log.Info().Msg("session ended")
			return
		}
		log.Info().Str("uid", s.UID).Str("email", s.Email).Msg("session started")
	})
	defer unsubscribe()

	app := routes.NewApp(log, cfg.AllowedOrigins(), authSvc, routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc, log),
		Doctor:   controllers.NewDoctorController(doctorSvc, uploader, log),
		Report:   controllers.NewReportController(reportSvc, log),
		Settings: controllers.NewSettingsController(settingsSvc, log),
	})

	scheduler, err := cron.StartReportJob(cfg.ReportSchedule, reportSvc, log)
	if err != nil {
		return fmt.Errorf("schedule weekly report: %w", err)
	}
	defer scheduler.Stop()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server started")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if closer, ok := cache.(io.Closer); ok {
		_ = closer.Close()
	}
	log.Info().Msg("server stopped")
	return nil
}

// openCache connects to Redis, falling back to an in-process cache when Redis
// is not configured or unreachable. Revocations then last only as long as the
// process.
func openCache(ctx context.Context, addr string, log zerolog.Logger) redis.Cache {
	if addr == "" {
		log.Warn().Msg("REDIS_ADDR empty, using in-memory cache")
		return redis.NewMemory()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := redis.Connect(ctx, addr)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		return redis.NewMemory()
	}
	log.Info().Str("addr", addr).Msg("connected to redis")
	return client
}
