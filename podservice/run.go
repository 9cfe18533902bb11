// Package podservice wires configuration, the credential store, the content
// providers, and the HTTP surface into a runnable service.
package podservice

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/api"
	"github.com/podgenius/podgenius-server/internal/api/gate"
	"github.com/podgenius/podgenius-server/internal/auth"
	"github.com/podgenius/podgenius-server/internal/config"
	"github.com/podgenius/podgenius-server/internal/factory"
	"github.com/podgenius/podgenius-server/internal/health"
	"github.com/podgenius/podgenius-server/internal/logger"
	"github.com/podgenius/podgenius-server/internal/pipeline"
	"github.com/podgenius/podgenius-server/internal/publish"
	"github.com/podgenius/podgenius-server/internal/research"
	"github.com/podgenius/podgenius-server/internal/script"
	"github.com/podgenius/podgenius-server/internal/speech"
	"github.com/podgenius/podgenius-server/internal/store"
	"github.com/podgenius/podgenius-server/internal/video"
)

// Run starts the Podgenius HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("podgenius-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("exa_key_set", cfg.ExaAPIKey != "").
		Bool("openai_key_set", cfg.OpenAIAPIKey != "").
		Bool("youtube_configured", cfg.YouTubeRefreshToken != "" || cfg.YouTubeAccessToken != "").
		Msg("Podgenius service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, providers, err := initDependencies(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	svcHealth := startHealthCheckers(ctx, cfg, log, st, providers)

	router := buildRouter(st, providers, svcHealth, cfg, log)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// providerSet holds the per-provider clients the pipeline and health
// monitoring share.
type providerSet struct {
	researcher  *research.Client
	composer    *script.Composer
	synthesizer *speech.Synthesizer
	compositor  *video.Compositor
	publisher   *publish.Publisher
}

// initDependencies constructs the store and provider clients. Only the store
// is fail-fast; providers degrade at request time when their keys are absent.
func initDependencies(cfg *config.Config, log zerolog.Logger) (store.Store, *providerSet, error) {
	st, err := factory.NewStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Credential store unavailable")
		return nil, nil, err
	}

	providers := &providerSet{
		researcher:  research.NewClient(cfg.ExaBaseURL, cfg.ExaAPIKey),
		composer:    script.NewComposer(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey),
		synthesizer: speech.NewSynthesizer(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey),
		compositor:  video.NewCompositor(cfg.PublicBaseURL),
		publisher:   publish.NewPublisher(cfg, log),
	}
	return st, providers, nil
}

// publisherAdapter narrows publish.Publisher to the pipeline's view of it.
type publisherAdapter struct {
	p *publish.Publisher
}

func (a publisherAdapter) Configured() bool { return a.p.Configured() }

func (a publisherAdapter) Upload(ctx context.Context, video []byte, title, description string, tags []string, playlistName string) (*pipeline.PublishResult, error) {
	res, err := a.p.Upload(ctx, video, title, description, tags, playlistName)
	if err != nil {
		return nil, err
	}
	return &pipeline.PublishResult{VideoID: res.VideoID, URL: res.URL}, nil
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(st store.Store, providers *providerSet, svcHealth *health.ServiceHealthChecker, cfg *config.Config, log zerolog.Logger) http.Handler {
	pipe := pipeline.New(
		providers.researcher,
		providers.composer,
		providers.synthesizer,
		providers.compositor,
		publisherAdapter{p: providers.publisher},
		log,
	)

	broker := auth.NewBroker(cfg)
	return api.NewRouter(
		api.NewAuthHandler(broker, st, log),
		api.NewUserHandler(st, log),
		api.NewResearchHandler(providers.researcher, log),
		api.NewPodcastHandler(pipe, log),
		api.NewHealthHandler(svcHealth.Components),
		gate.New(st, log),
	)
}

// startHealthCheckers starts component checkers and the service-level
// aggregator whose per-component view feeds the health endpoint.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, providers *providerSet) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewHealthChecker(st, log, probeTimeout)
	exaChecker := health.NewProviderHealthChecker("exa", providers.researcher, log, probeTimeout)
	openaiChecker := health.NewProviderHealthChecker("openai", providers.composer, log, probeTimeout)

	checkers := []health.HealthChecker{storeChecker, exaChecker, openaiChecker}
	for _, c := range checkers {
		go c.Start(ctx, interval)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation requests hold the connection through provider calls and
		// the ffmpeg mux, so the write timeout is generous.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// newServerContext returns a cancellable context cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
