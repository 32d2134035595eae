package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/np-mndp/book-my-seat/internal/api"
	"github.com/np-mndp/book-my-seat/internal/config"
	"github.com/np-mndp/book-my-seat/internal/export"
	"github.com/np-mndp/book-my-seat/internal/geo"
	"github.com/np-mndp/book-my-seat/internal/models"
	"github.com/np-mndp/book-my-seat/internal/notify"
	"github.com/np-mndp/book-my-seat/internal/reminders"
	"github.com/np-mndp/book-my-seat/internal/session"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("BMS_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.API.BaseURL == "" {
		logger.Fatal().Msg("set api.base_url in config")
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.APITimeout())

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.CacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	sender, err := buildSender(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build notification sender")
	}
	dispatcher := notify.NewDispatcher(sender, cfg.Reminders.SendsPerSecond, logger)
	defer dispatcher.Close()

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open reminder store")
	}
	defer closeStore()

	scheduler := reminders.NewScheduler(dispatcher, store, cfg.ReminderLead(), logger)
	if cfg.Monitoring.PrometheusEnabled {
		scheduler.WithMetrics(reminders.NewMetrics("bookmyseat"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := session.NewGate(logger)
	gate.OnNavigate(func(from, to session.Route) {
		logger.Info().Str("route", string(to)).Msg("navigation")
	})
	gate.OnSessionEnd(func() {
		if err := scheduler.Reset(ctx); err != nil {
			logger.Warn().Err(err).Msg("reminder reset on logout failed")
		}
	})

	login, err := client.Login(ctx, cfg.API.Email, cfg.API.Password)
	if err != nil {
		logger.Fatal().Err(err).Msg("login failed")
	}
	client.SetToken(login.Token)
	gate.LoginSuccess(login.User, login.Token, nil)
	logger.Info().Str("user", login.User.Name).Str("role", string(login.User.Role)).Msg("logged in")

	if cfg.Search.Lat != 0 || cfg.Search.Long != 0 {
		runDiscovery(ctx, cfg, client, gate, logger)
	}

	source := &bookingSource{client: client}
	refresher := reminders.NewRefreshService(source, scheduler, cfg.RefreshInterval(), logger)

	if cfg.Export.HistoryPath != "" {
		if parts := refresher.RefreshNow(ctx); parts != nil {
			history := append(append([]models.Booking{}, parts.Upcoming...), parts.Past...)
			if err := export.WriteBookings(cfg.Export.HistoryPath, history); err != nil {
				logger.Warn().Err(err).Str("path", cfg.Export.HistoryPath).Msg("history export failed")
			} else {
				logger.Info().Str("path", cfg.Export.HistoryPath).Int("bookings", len(history)).Msg("history exported")
			}
		}
	}

	refresher.Start(ctx)
	defer refresher.Stop()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Msg("book-my-seat agent started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
}

// bookingSource adapts the API client to the refresh service: the
// backend's pre-partitioned lists are merged so the classifier can
// re-derive the split against the device clock.
type bookingSource struct {
	client *api.Client
}

func (s *bookingSource) FetchBookings(ctx context.Context) ([]models.Booking, error) {
	resp, err := s.client.Bookings(ctx)
	if err != nil {
		return nil, err
	}
	merged := make([]models.Booking, 0, len(resp.Bookings)+len(resp.PastBookings))
	merged = append(merged, resp.Bookings...)
	merged = append(merged, resp.PastBookings...)
	return merged, nil
}

// runDiscovery confirms the configured home location with the gate,
// fetches restaurants around it and logs the ranked result set.
func runDiscovery(ctx context.Context, cfg *config.Config, client *api.Client, gate *session.Gate, logger zerolog.Logger) {
	origin := models.Coordinate{Lat: cfg.Search.Lat, Long: cfg.Search.Long}
	gate.ConfirmLocation(models.Location{Coordinate: origin, Name: cfg.Search.LocationName})

	list, err := client.Restaurants(ctx, origin, cfg.SearchRadiusKm())
	if err != nil {
		logger.Warn().Err(err).Msg("restaurant discovery failed")
		return
	}
	ranked := geo.Rank(origin, cfg.SearchRadiusKm(), list)
	logger.Info().Int("within_radius", len(ranked)).Float64("radius_km", cfg.SearchRadiusKm()).Msg("restaurants ranked")
	if len(ranked) > 0 {
		nearest := ranked[0]
		logger.Info().Str("title", nearest.Title).Float64("distance_km", nearest.DistanceKm).Msg("nearest restaurant")
	}
}

func buildSender(cfg *config.Config) (notify.Sender, error) {
	switch cfg.Reminders.Channel {
	case "webpush":
		return notify.NewWebPushSender(notify.WebPushConfig{
			VAPIDPublicKey:  cfg.WebPush.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.WebPush.VAPIDPrivateKey,
			Subscriber:      cfg.WebPush.Subscriber,
			Endpoint:        cfg.WebPush.Endpoint,
			P256DH:          cfg.WebPush.P256DH,
			Auth:            cfg.WebPush.Auth,
		})
	case "telegram", "":
		return notify.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	default:
		return nil, fmt.Errorf("unknown reminder channel %q", cfg.Reminders.Channel)
	}
}

func buildStore(cfg *config.Config) (reminders.Store, func(), error) {
	if cfg.Reminders.StorePath == "" {
		return reminders.NewMemoryStore(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Reminders.StorePath), 0o755); err != nil {
		return nil, nil, err
	}
	store, err := reminders.NewSQLiteStore(cfg.Reminders.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func startHealthServer(ctx context.Context, port int, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if rdb != nil {
			ctxPing, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
