// Command matchcast reads the simulator's frame stream, correlates it into
// labeled match events and delivers them to the configured consumers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/pitchside/matchcast/internal/config"
	"github.com/pitchside/matchcast/internal/database"
	"github.com/pitchside/matchcast/internal/discovery"
	"github.com/pitchside/matchcast/internal/dispatcher"
	"github.com/pitchside/matchcast/internal/engine"
	"github.com/pitchside/matchcast/internal/feed"
	"github.com/pitchside/matchcast/internal/influx"
	"github.com/pitchside/matchcast/internal/logging"
	"github.com/pitchside/matchcast/internal/metadata"
	intOtel "github.com/pitchside/matchcast/internal/otel"
	"github.com/pitchside/matchcast/internal/publish"
	"github.com/pitchside/matchcast/internal/publish/archive"
	"github.com/pitchside/matchcast/internal/publish/pubsub"
	"github.com/pitchside/matchcast/internal/publish/wspub"
	"github.com/pitchside/matchcast/pkg/core"
)

// frameSample is the telemetry record handed to the dispatcher side channel
// after every processed frame.
type frameSample struct {
	StepsLeft    int   `json:"steps_left"`
	ProcessingUs int64 `json:"processing_us"`
}

// resultCapture remembers the end_of_match payload so the final score can be
// reported to the fixture registry after the feed drains.
type resultCapture struct {
	end *core.EndOfMatch
}

func (c *resultCapture) Publish(_ context.Context, env *core.Envelope) error {
	if eom, ok := env.Payload.(core.EndOfMatch); ok {
		c.end = &eom
	}
	return nil
}

func (c *resultCapture) Close() error { return nil }

func main() {
	opts := parseFlags(os.Args[1:])
	if opts.showVersion {
		fmt.Printf("matchcast %s (built %s)\n", Version, BuildDate)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "matchcast:", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	sessionStart := time.Now()

	// Bootstrap logging to stdout until the log file is open. The match
	// label is attached to every record once metadata is loaded.
	var matchLabel string
	slogMgr := logging.NewSlogManager()
	slogMgr.Context = func() []slog.Attr {
		if matchLabel == "" {
			return nil
		}
		return []slog.Attr{slog.String("match", matchLabel)}
	}
	slogMgr.Setup(nil, "info", nil)
	logger := slogMgr.Logger()

	if err := config.Load(opts.configDir); err != nil {
		logger.Warn("Failed to load config, using defaults", "error", err)
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	logPath := logging.LogFilePath(logsDir, "matchcast", sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	var otelProvider *intOtel.Provider
	if otelCfg := config.GetOTelConfig(); otelCfg.Enabled {
		otelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			logger.Error("Failed to initialize OTel provider", "error", err)
			otelProvider = nil
		}
	}
	var logProvider *sdklog.LoggerProvider
	if otelProvider != nil {
		logProvider = otelProvider.LoggerProvider()
	}

	var extraWriters []io.Writer
	if config.GetBool("graylog.enabled") {
		gw, err := logging.NewGelfWriter(config.GetString("graylog.address"))
		if err != nil {
			logger.Warn("Graylog unreachable, skipping GELF output", "error", err)
		} else {
			extraWriters = append(extraWriters, gw)
		}
	}

	slogMgr.Setup(logFile, config.GetString("logLevel"), logProvider, extraWriters...)
	logger = slogMgr.Logger()
	logger.Info("Logging to file", "path", logPath)

	// zerolog feeds the components that take structured loggers by value.
	zlog := zerolog.New(logFile).With().Timestamp().Logger()

	metaPath := opts.metadataPath
	if metaPath == "" {
		metaPath = config.GetString("metadataPath")
	}
	roster, err := metadata.Load(metaPath)
	if err != nil {
		return err
	}
	matchLabel = roster.Team(core.SideLeft).Name + " vs " + roster.Team(core.SideRight).Name
	logger.Info("Match metadata loaded", "left", roster.Team(core.SideLeft).Name,
		"right", roster.Team(core.SideRight).Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks []publish.Publisher

	if config.GetBool("publisher.stdout.enabled") {
		sinks = append(sinks, publish.NewWriterSink(os.Stdout))
	}

	var registry *discovery.Client
	var matchID string
	wsURL := config.GetString("publisher.websocket.url")
	useWebsocket := config.GetBool("publisher.websocket.enabled")
	if config.GetBool("discovery.enabled") {
		registry = discovery.New(
			config.GetString("discovery.serverUrl"),
			config.GetString("discovery.apiKey"),
		)
		if err := registry.Healthcheck(); err != nil {
			return fmt.Errorf("fixture registry unreachable: %w", err)
		}
		matchID, wsURL, err = registry.Announce(roster.Metadata())
		if err != nil {
			return fmt.Errorf("announcing match: %w", err)
		}
		useWebsocket = true
		logger.Info("Match announced", "match_id", matchID, "consumer_url", wsURL)
	}
	if useWebsocket {
		ws := wspub.New(wspub.Config{
			URL:    wsURL,
			Secret: config.GetString("discovery.apiKey"),
		}, logger)
		if err := ws.Connect(); err != nil {
			return fmt.Errorf("connecting to event consumer: %w", err)
		}
		sinks = append(sinks, ws)
	}

	if config.GetBool("publisher.pubsub.enabled") {
		ps, err := pubsub.New(ctx, pubsub.Config{
			ProjectID:       config.GetString("publisher.pubsub.projectId"),
			TopicID:         config.GetString("publisher.pubsub.topicId"),
			CredentialsFile: config.GetString("publisher.pubsub.credentialsFile"),
		}, zlog)
		if err != nil {
			return fmt.Errorf("initializing pubsub publisher: %w", err)
		}
		sinks = append(sinks, ps)
	}

	var dbm *database.Manager
	if archiveCfg := config.GetArchiveConfig(); archiveCfg.Enabled {
		dbm = database.NewManager(zlog)
		dbm.SqliteFilePath = filepath.Join(logsDir,
			fmt.Sprintf("matchcast_%s.db", sessionStart.Format("20060102_150405")))
		if err := dbm.Connect(); err != nil {
			return fmt.Errorf("connecting archive database: %w", err)
		}
		arc, err := archive.New(dbm.DB, archiveCfg.FlushEvery, zlog)
		if err != nil {
			return err
		}
		sinks = append(sinks, arc)
	}

	var influxMgr *influx.Manager
	if config.GetBool("influx.enabled") {
		influxMgr = influx.NewManager(zlog, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influxMgr.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, telemetry disabled", "error", err)
			influxMgr = nil
		} else {
			sinks = append(sinks, influx.NewSink(influxMgr))
		}
	}

	capture := &resultCapture{}
	sinks = append(sinks, capture)

	fanout := publish.NewFanout(sinks...)

	disp, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	if influxMgr != nil {
		disp.Register("telemetry.frame", func(msg dispatcher.Message) (any, error) {
			var s frameSample
			if err := json.Unmarshal(msg.Payload, &s); err != nil {
				return nil, err
			}
			return nil, influxMgr.WritePoint(context.Background(), influx.BucketEnginePerf,
				influx.FramePoint(s.StepsLeft, time.Duration(s.ProcessingUs)*time.Microsecond))
		}, dispatcher.Buffered(1024), dispatcher.Logged())
	}

	eng, err := engine.New(ctx, roster, fanout, logger)
	if err != nil {
		return err
	}

	feedPath := opts.feedPath
	if feedPath == "" {
		feedPath = config.GetString("feed.path")
	}
	var in io.Reader = os.Stdin
	if feedPath != "" && feedPath != "-" {
		f, err := os.Open(feedPath)
		if err != nil {
			return fmt.Errorf("opening feed: %w", err)
		}
		defer f.Close()
		in = f
	}
	reader := feed.NewReader(in, logger)

	for {
		if ctx.Err() != nil {
			logger.Info("Interrupted, stopping feed", "lines", reader.Line())
			break
		}

		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, feed.ErrMalformedFrame) {
				logger.Warn("Skipping malformed frame", "error", err)
				continue
			}
			return err
		}

		start := time.Now()
		if err := eng.ProcessFrame(ctx, &frame.Snapshot, frame.LeftAction, frame.RightAction); err != nil {
			logger.Warn("Frame processed with errors", "line", reader.Line(), "error", err)
		}

		if disp.HasHandler("telemetry.frame") {
			sample, _ := json.Marshal(frameSample{
				StepsLeft:    frame.Snapshot.StepsLeft,
				ProcessingUs: time.Since(start).Microseconds(),
			})
			_, _ = disp.Dispatch(dispatcher.Message{
				Kind:      "telemetry.frame",
				Payload:   sample,
				Timestamp: time.Now(),
			})
		}

		if eng.Ended() {
			break
		}
	}

	if !eng.Ended() {
		logger.Warn("Feed ended before end_of_match", "lines", reader.Line())
	}

	if registry != nil && capture.end != nil {
		if err := registry.ReportResult(matchID, *capture.end); err != nil {
			logger.Error("Reporting final result failed", "error", err)
		} else {
			logger.Info("Final result reported", "match_id", matchID,
				"score_left", capture.end.ScoreLeft, "score_right", capture.end.ScoreRight)
		}
	}

	if err := fanout.Close(); err != nil {
		logger.Error("Closing publishers", "error", err)
	}

	// The archive fell back to the in-memory store; persist it.
	if dbm != nil && dbm.ShouldSaveLocal {
		if err := dbm.DumpMemoryToDisk(); err != nil {
			logger.Error("Dumping archive database to disk", "error", err)
		}
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := slogMgr.Flush(flushCtx); err != nil {
		logger.Warn("Flushing logs", "error", err)
	}
	if otelProvider != nil {
		if err := otelProvider.Shutdown(flushCtx); err != nil {
			logger.Warn("Shutting down OTel provider", "error", err)
		}
	}

	logger.Info("Match complete", "frames", reader.Line())
	return nil
}
