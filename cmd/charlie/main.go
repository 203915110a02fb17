// Command charlie runs the Check-in Charlie front desk agent: a websocket
// server that streams emotion-annotated camera frames and answers guest
// chat conditioned on their inferred emotional state.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/checkin-charlie/frontdesk/internal/config"
	"github.com/checkin-charlie/frontdesk/internal/server"
	"github.com/checkin-charlie/frontdesk/pkg/agent"
	"github.com/checkin-charlie/frontdesk/pkg/capture"
	"github.com/checkin-charlie/frontdesk/pkg/chat"
	"github.com/checkin-charlie/frontdesk/pkg/transcribe"
	"github.com/checkin-charlie/frontdesk/pkg/version"
	"github.com/checkin-charlie/frontdesk/pkg/vision"
)

var rootCmd = &cobra.Command{
	Use:          "charlie",
	Short:        "Check-in Charlie - an emotion-aware hotel front desk agent",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the front desk agent server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real deployments set the environment directly.
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := setupLogger(cfg.LogLevel)
		logger.Info("starting front desk agent",
			slog.String("service", "charlie"),
			slog.String("version", version.Version),
			slog.String("addr", cfg.ListenAddr))

		// Model loading is the explicit startup phase: any failure here
		// aborts the process before the server accepts clients.
		faces, err := vision.NewONNXFaceDetector(cfg.FaceModelPath)
		if err != nil {
			return fmt.Errorf("load face detector: %w", err)
		}
		defer faces.Close()

		emotions, err := vision.NewONNXEmotionClassifier(cfg.EmotionModelPath)
		if err != nil {
			return fmt.Errorf("load emotion classifier: %w", err)
		}
		defer emotions.Close()

		orch := agent.New(agent.Config{
			LLM:            chat.NewOpenAILLM(cfg.OpenAIKey, cfg.OpenAIModel),
			Transcriber:    transcribe.NewWhisperTranscriber(cfg.OpenAIKey),
			Detector:       vision.NewDetector(faces, emotions),
			Logger:         logger,
			WindowCapacity: cfg.EmotionWindowSize,
		})

		srv := server.New(server.Config{
			Orchestrator: orch,
			Logger:       logger,
			NewSource: func(ctx context.Context) (capture.Source, error) {
				return capture.OpenMJPEG(ctx, cfg.CameraURL)
			},
		})

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		httpSrv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: srv.Handler(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", slog.String("addr", cfg.ListenAddr))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown failed", slog.String("error", err.Error()))
			}
		}
		return nil
	},
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func main() {
	rootCmd.AddCommand(serveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
