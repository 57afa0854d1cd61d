package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yumzy-partner/api"
	"yumzy-partner/auth"
	"yumzy-partner/bot"
	"yumzy-partner/config"
	"yumzy-partner/db"
	"yumzy-partner/discovery"
	"yumzy-partner/live"
	"yumzy-partner/logging"
	"yumzy-partner/migrations"
	"yumzy-partner/notify"
	"yumzy-partner/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "yumzy-partner",
		Short:        "Restaurant partner backend for Yumzy",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, order feed and Telegram console",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply embedded database migrations",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "seed-locations <file>",
			Short: "Load the delivery location catalog from a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE:  runSeedLocations,
		},
	)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logging.Setup(cfg.Env)
	return cfg, nil
}

func connect(ctx context.Context, cfg *config.Config) error {
	if err := db.Init(ctx, cfg.DB); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := connect(ctx, cfg); err != nil {
		return err
	}
	defer db.Close()
	return migrations.Apply(ctx, db.Pool)
}

func runSeedLocations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	locs, err := services.LoadLocationsFile(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := connect(ctx, cfg); err != nil {
		return err
	}
	defer db.Close()
	n, err := services.UpsertLocations(ctx, locs)
	if err != nil {
		return err
	}
	log.WithField("locations", n).Info("[seed] location catalog loaded")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Env == config.Production {
		if cfg.Auth.JWTSecret == "changeme" {
			return errors.New("JWT_SECRET must be set in production")
		}
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := connect(ctx, cfg); err != nil {
		return err
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	hub := live.NewHub()
	dispatcher := notify.NewDispatcher(
		notify.NewClient(cfg.OneSignal),
		services.PlayerDirectory{},
		services.NotificationJournal{},
	)
	if cfg.OneSignal.AppID == "" || cfg.OneSignal.APIKey == "" {
		log.Warn("[serve] OneSignal credentials missing, push notifications will fail")
	}
	server := api.NewServer(
		auth.NewSessions(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		auth.IDTokenVerifier{ClientID: cfg.Auth.GoogleClientID},
		dispatcher,
		hub,
	)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Fallible startup finishes before the group starts.
	var b *bot.Bot
	if cfg.Telegram.Token != "" {
		b, err = bot.New(cfg.Telegram.Token, dispatcher, hub)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	} else {
		log.Info("[serve] TOKEN not set, Telegram console disabled")
	}
	if cfg.Consul.Host != "" {
		deregister, err := registerService(ctx, cfg.Consul, cfg.HTTP.Port)
		if err != nil {
			return err
		}
		defer deregister()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", httpSrv.Addr).Info("[serve] http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return live.NewListener(db.Pool, hub).Run(gctx)
	})

	if b != nil {
		g.Go(func() error { return b.Run(gctx) })
	}

	return g.Wait()
}

// registerService announces the HTTP service to Consul and returns the
// matching deregistration.
func registerService(ctx context.Context, cfg config.ConsulConfig, port int) (func(), error) {
	reg, err := discovery.NewRegistrar(cfg, port)
	if err != nil {
		return nil, err
	}
	if err := reg.WaitForAgent(ctx, 15); err != nil {
		return nil, err
	}
	if err := reg.Register(); err != nil {
		return nil, err
	}
	return func() {
		if err := reg.Deregister(); err != nil {
			log.WithError(err).Warn("[serve] consul deregister")
		}
	}, nil
}
