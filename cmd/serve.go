package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shailu9/MediaInfoApi/api/handlers"
	"github.com/shailu9/MediaInfoApi/api/middleware"
	appanalysis "github.com/shailu9/MediaInfoApi/application/analysis"
	apparchive "github.com/shailu9/MediaInfoApi/application/archive"
	jobapp "github.com/shailu9/MediaInfoApi/application/job"
	appmedia "github.com/shailu9/MediaInfoApi/application/media"
	appnotif "github.com/shailu9/MediaInfoApi/application/notification"
	"github.com/shailu9/MediaInfoApi/application/probe"
	"github.com/shailu9/MediaInfoApi/domain/analysis"
	"github.com/shailu9/MediaInfoApi/domain/notification"
	"github.com/shailu9/MediaInfoApi/infrastructure/drive"
	"github.com/shailu9/MediaInfoApi/infrastructure/ffmpeg"
	"github.com/shailu9/MediaInfoApi/infrastructure/filesystem"
	"github.com/shailu9/MediaInfoApi/infrastructure/gmail"
	"github.com/shailu9/MediaInfoApi/infrastructure/store"
	"github.com/shailu9/MediaInfoApi/infrastructure/vision"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Probing and analysis run synchronously; trims, extractions, and scans can
also run as async jobs on a worker pool. Jobs and probe history persist in
the sqlite store; artifacts land in the configured output directory.

Example:
  mediainfo-api serve
  mediainfo-api serve --host 127.0.0.1 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "host to bind the server on")
	serveCmd.Flags().IntVar(&servePort, "port", 9090, "port to bind the server on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	// Flags given explicitly win over the config file
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	// Tool adapters
	prober := ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.FFmpeg.FFprobePath))
	trimmer := ffmpeg.NewTrimmer(ffmpeg.WithFFmpegPath(cfg.FFmpeg.FFmpegPath))
	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.FFmpegPath))
	scanner := ffmpeg.NewSilenceScanner(ffmpeg.WithScannerFFmpegPath(cfg.FFmpeg.FFmpegPath))
	finder := vision.NewTemplateFinder(
		vision.WithFinderFFmpegPath(cfg.FFmpeg.FFmpegPath),
		vision.WithFinderFFprobePath(cfg.FFmpeg.FFprobePath),
	)
	defer finder.Close()

	if err := verifyTool(ctx, trimmer, "ffmpeg"); err != nil {
		return err
	}
	if err := verifyTool(ctx, prober, "ffprobe"); err != nil {
		return err
	}

	checker := filesystem.NewChecker()
	sniffer := filesystem.NewSniffer()
	workspace := filesystem.NewWorkspace(cfg.Paths.ScratchRoot)

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	// Application services
	probeSvc := probe.NewService(prober, checker, st)
	trimSvc := appmedia.NewTrimService(trimmer, checker, sniffer, cfg.Paths.OutputDir)
	extractSvc := appmedia.NewExtractService(extractor, checker, sniffer, cfg.Paths.OutputDir, cfg.Audio.Bitrate)
	silenceSvc := appanalysis.NewSilenceService(scanner, checker, analysis.SilenceOptions{
		NoiseDB:           cfg.Analysis.NoiseDB,
		MinSilenceSeconds: cfg.Analysis.MinSilenceSeconds,
	})
	templateSvc := appanalysis.NewTemplateService(finder, checker, cfg.Paths.TemplatesDir, analysis.TemplateOptions{
		FrameInterval:  cfg.Analysis.FrameInterval,
		MatchThreshold: cfg.Analysis.MatchThreshold,
	})

	// Optional post-steps for finished jobs
	var archiveSvc *apparchive.Service
	if cfg.Archive.Enabled {
		client, err := drive.NewClientWithOAuth(ctx, drive.OAuthConfig{
			CredentialsFile: cfg.Google.CredentialsFile,
			TokenFile:       cfg.Google.TokenFile,
		})
		if err != nil {
			return fmt.Errorf("failed to create Google Drive client: %w", err)
		}
		archiveSvc = apparchive.NewService(client, sniffer, cfg.Archive.FolderID, nil)
	}

	var notifySvc *appnotif.Service
	if cfg.Email.Enabled {
		sender, err := gmail.NewClientWithOAuth(ctx, gmail.OAuthConfig{
			CredentialsFile: cfg.Google.CredentialsFile,
			TokenFile:       cfg.Google.GmailTokenFile,
		}, notification.Recipient{Name: cfg.Email.FromName, Address: cfg.Email.FromAddress})
		if err != nil {
			return fmt.Errorf("failed to create Gmail client: %w", err)
		}
		notifySvc = appnotif.NewService(sender, cfg.Email.SenderName)
	}

	executor := jobapp.NewPipelineExecutor(
		probeSvc, trimSvc, extractSvc, silenceSvc, templateSvc,
		workspace, archiveSvc, notifySvc, cfg,
	)
	jobSvc := jobapp.NewService(st, checker, executor,
		jobapp.WithWorkers(cfg.Jobs.Workers),
		jobapp.WithQueueSize(cfg.Jobs.QueueSize),
		jobapp.WithTimeout(time.Duration(cfg.FFmpeg.TimeoutSeconds)*time.Second),
	)

	if n, err := jobSvc.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover interrupted jobs: %w", err)
	} else if n > 0 {
		log.Warn().Int64("jobs", n).Msg("marked jobs interrupted by restart as failed")
	}
	jobSvc.Start(ctx)

	// Create routes
	r := mux.NewRouter()
	r.Use(middleware.WithLogger)
	r.Use(middleware.Recover)

	// Compatibility routes
	r.HandleFunc("/", handlers.Root()).Methods(http.MethodGet)
	r.HandleFunc("/items/{item_id}", handlers.Item()).Methods(http.MethodGet)
	r.HandleFunc("/probe-audio", handlers.ProbeAudio(probeSvc)).Methods(http.MethodPost)

	// Probe routes
	r.HandleFunc("/healthz", handlers.Healthz(trimmer, prober)).Methods(http.MethodGet)
	r.HandleFunc("/probe", handlers.Probe(probeSvc)).Methods(http.MethodPost)
	r.HandleFunc("/reports", handlers.ListReports(probeSvc)).Methods(http.MethodGet)
	r.HandleFunc("/reports/{report_id}", handlers.GetReport(probeSvc)).Methods(http.MethodGet)

	// Job routes
	r.HandleFunc("/jobs", handlers.SubmitJob(jobSvc)).Methods(http.MethodPost)
	r.HandleFunc("/jobs", handlers.ListJobs(jobSvc)).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{job_id}", handlers.GetJob(jobSvc)).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{job_id}", handlers.CancelJob(jobSvc)).Methods(http.MethodDelete)
	r.HandleFunc("/jobs/{job_id}/artifact", handlers.JobArtifact(jobSvc, sniffer)).Methods(http.MethodGet)

	// Analysis routes
	r.HandleFunc("/analyze/silence", handlers.AnalyzeSilence(silenceSvc)).Methods(http.MethodPost)
	r.HandleFunc("/analyze/template", handlers.AnalyzeTemplate(templateSvc)).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stop()
		jobSvc.Wait()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	jobSvc.Wait()
	return nil
}

// verifyTool fails fast when a required binary is missing from PATH
func verifyTool(ctx context.Context, tool interface{ VerifyInstalled(context.Context) error }, name string) error {
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := tool.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("%s verification failed: %w", name, err)
	}
	return nil
}
