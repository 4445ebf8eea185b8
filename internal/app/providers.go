package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/middleware"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/server"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/handlers"
	v1routes "github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/routes"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/feedback"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/logging"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/pipeline"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/transcribe"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

// App is everything the serve command needs.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *storage.DiskStore
	Server *server.Server
}

var configSet = wire.NewSet(
	wire.FieldsOf(new(*config.Config), "Server", "Upload", "Storage", "Transcription", "Feedback", "RateLimit", "Log"),
)

var pipelineSet = wire.NewSet(
	configSet,
	provideLogger,
	provideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	pipeline.NewMetrics,
	upload.NewValidator,
	wire.Bind(new(pipeline.Validator), new(*upload.Validator)),
	provideDiskStore,
	wire.Bind(new(storage.Store), new(*storage.DiskStore)),
	transcribe.New,
	feedback.New,
	providePipelineOptions,
	pipeline.New,
)

var serverSet = wire.NewSet(
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	provideLimiter,
	provideAnalyzeHandler,
	wire.Struct(new(v1routes.HandlerContainer), "*"),
	server.NewServer,
	wire.Struct(new(App), "*"),
)

// provideLogger builds the process logger; the cleanup flushes it.
func provideLogger(cfg config.Log) (*zap.Logger, func(), error) {
	logger, err := logging.NewLogger(cfg.Development, cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideDiskStore(cfg config.Storage, up config.Upload, logger *zap.Logger) *storage.DiskStore {
	return storage.NewDiskStore(cfg, up.MaxFileSizeBytes, logger)
}

func providePipelineOptions(cfg config.Transcription) pipeline.Options {
	return pipeline.Options{Language: cfg.Language}
}

// provideLimiter returns a nil Limiter when rate limiting is disabled.
func provideLimiter(cfg config.RateLimit, logger *zap.Logger) (middleware.Limiter, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	limiter, err := middleware.NewLimiter(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return limiter, func() {
		if err := limiter.Close(); err != nil {
			logger.Warn("close rate limiter", zap.Error(err))
		}
	}, nil
}

func provideAnalyzeHandler(p *pipeline.Pipeline, up config.Upload, srv config.Server, logger *zap.Logger) *handlers.AnalyzeHandler {
	return handlers.NewAnalyzeHandler(p, up.MaxFileSizeBytes, srv.IncludeTranscript, logger)
}
