package app

import (
	"context"
	"time"

	"github.com/leadscout/linkedin-post-parser/internal/aggregator"
	"github.com/leadscout/linkedin-post-parser/internal/aggregator/aggregatorimpl"
	"github.com/leadscout/linkedin-post-parser/internal/command"
	"github.com/leadscout/linkedin-post-parser/internal/command/commandimpl"
	"github.com/leadscout/linkedin-post-parser/internal/fetcher"
	"github.com/leadscout/linkedin-post-parser/internal/fetcher/fetcherimpl"
	"github.com/leadscout/linkedin-post-parser/internal/parser"
	"github.com/leadscout/linkedin-post-parser/internal/parser/parserimpl"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline"
	"github.com/leadscout/linkedin-post-parser/internal/pipeline/pipelineimpl"
	"github.com/leadscout/linkedin-post-parser/internal/searcher"
	"github.com/leadscout/linkedin-post-parser/internal/searcher/searcherimpl"
	"github.com/leadscout/linkedin-post-parser/internal/storage/excelstore"
	"github.com/leadscout/linkedin-post-parser/internal/storage/jsonstore"
	"github.com/leadscout/linkedin-post-parser/internal/telegram"
	"github.com/leadscout/linkedin-post-parser/internal/telegram/telegramimpl"
	"github.com/leadscout/linkedin-post-parser/pkg/config"
	"github.com/leadscout/linkedin-post-parser/pkg/logger"
	"go.uber.org/fx"
)

// RunMode is what the CLI resolved from its flags: which entrypoint to run
// and the pipeline options to run it with.
type RunMode struct {
	Pipeline pipeline.Options

	// BatchDir, when set, parses saved .html files instead of fetching.
	BatchDir string
	// WatchEvery, when positive, re-runs the pipeline on that interval.
	WatchEvery time.Duration
	// Bot starts the Telegram command loop instead of a one-shot run.
	Bot bool
}

// Module wires the shared object graph. Providers are lazy, so the Telegram
// client is only constructed when bot mode asks for the command handler.
var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		jsonstore.New,
		excelstore.New,
	),
	fx.Provide(
		fx.Annotate(
			fetcherimpl.New,
			fx.As(new(fetcher.Client)),
		),
		fx.Annotate(
			searcherimpl.New,
			fx.As(new(searcher.Client)),
		),
		fx.Annotate(
			parserimpl.New,
			fx.As(new(parser.Client)),
		),
		fx.Annotate(
			aggregatorimpl.New,
			fx.As(new(aggregator.Client)),
		),
		fx.Annotate(
			pipelineimpl.New,
			fx.As(new(pipeline.Client)),
		),
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
	),
)

// New assembles the fx application for the requested mode.
func New(log *logger.Impl, mode RunMode) *fx.App {
	opts := []fx.Option{
		fx.Logger(log),
		fx.Supply(mode),
		Module,
	}

	switch {
	case mode.Bot:
		opts = append(opts, fx.Invoke(runBot))
	case mode.BatchDir != "":
		opts = append(opts, fx.Invoke(runBatch))
	case mode.WatchEvery > 0:
		opts = append(opts, fx.Invoke(runWatch))
	default:
		opts = append(opts, fx.Invoke(runOnce))
	}

	return fx.New(opts...)
}

// runOnce executes a single pipeline run and shuts the application down
// when it finishes. A run that parsed nothing exits non-zero so cron jobs
// and CI notice. PIPELINE_WATCH_MINUTES turns the one-shot into a watch
// loop when no -watch flag was given.
func runOnce(lc fx.Lifecycle, sd fx.Shutdowner, log logger.Logger, pipe pipeline.Client, mode RunMode, cfg *config.Config) {
	if every := time.Duration(cfg.Pipeline.WatchMinutes) * time.Minute; every > 0 {
		mode.WatchEvery = every
		runWatch(lc, sd, log, pipe, mode)
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				summary, err := pipe.Run(context.Background(), mode.Pipeline)
				if err != nil {
					log.Error("Pipeline run failed", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				if summary.Parsed == 0 {
					log.Warn("Pipeline run produced no parsed posts")
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				log.Info("Pipeline run finished",
					"parsed", summary.Parsed,
					"fetchErrors", summary.FetchErrors,
					"collectionSize", summary.CollectionSize)
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}

func runBatch(lc fx.Lifecycle, sd fx.Shutdowner, log logger.Logger, pipe pipeline.Client, mode RunMode) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				summary, err := pipe.RunBatch(context.Background(), mode.BatchDir, mode.Pipeline)
				if err != nil {
					log.Error("Batch run failed", "dir", mode.BatchDir, "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				if summary.Parsed == 0 {
					log.Warn("No posts parsed from batch directory", "dir", mode.BatchDir)
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				log.Info("Batch run finished",
					"parsed", summary.Parsed,
					"collectionSize", summary.CollectionSize)
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}

// runWatch keeps re-running the pipeline until the process is stopped.
func runWatch(lc fx.Lifecycle, sd fx.Shutdowner, log logger.Logger, pipe pipeline.Client, mode RunMode) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := pipe.Watch(ctx, mode.WatchEvery, mode.Pipeline); err != nil && ctx.Err() == nil {
					log.Error("Watch loop failed", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func runBot(lc fx.Lifecycle, log logger.Logger, tgClient telegram.Client, cmdClient command.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := cmdClient.HandleCommands(ctx); err != nil && ctx.Err() == nil {
					log.Error("Command loop stopped", "error", err)
					tgClient.SendMessageToUser("Command loop stopped: " + err.Error())
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
