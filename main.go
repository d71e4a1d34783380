package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathakanu/memoryjournal/internal/anthropic"
	"github.com/pathakanu/memoryjournal/internal/assistant"
	"github.com/pathakanu/memoryjournal/internal/config"
	"github.com/pathakanu/memoryjournal/internal/database"
	"github.com/pathakanu/memoryjournal/internal/digest"
	"github.com/pathakanu/memoryjournal/internal/gemini"
	myopenai "github.com/pathakanu/memoryjournal/internal/openai"
	"github.com/pathakanu/memoryjournal/internal/store"
	"github.com/pathakanu/memoryjournal/internal/twilio"
	"github.com/pathakanu/memoryjournal/internal/web"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	logger := log.New(os.Stdout, "[memoryjournal] ", log.LstdFlags|log.Lshortfile)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Fatalf("%v", err)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "memoryjournal",
		Short:         "Personal memory journal with to-dos, ideas and AI questions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(logger)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			logger.Println("schema is up to date")
			return nil
		},
	})

	return root
}

func serve(logger *log.Logger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	journal := store.New(db)

	generator, err := newGenerator(context.Background(), cfg)
	if err != nil {
		return err
	}
	policy := assistant.RetryPolicy{MaxAttempts: cfg.MaxAttempts, Delay: cfg.RetryDelay}
	asst := assistant.New(journal, generator, cfg.ContextLimit, policy, logger)

	var scheduler *digest.Scheduler
	if cfg.DigestEnabled() {
		twilioClient := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, logger)
		scheduler = digest.New(journal, twilioClient, cfg.DigestRecipient, cfg.DigestSchedule, cfg.LocalTimezone, logger)
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler start: %w", err)
		}
		logger.Printf("digest scheduled %q", cfg.DigestSchedule)
	}

	srv, err := web.NewServer(journal, asst, logger)
	if err != nil {
		return fmt.Errorf("web server: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("server starting on :%s (llm=%s)", cfg.Port, cfg.LLMProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown(server, scheduler, logger)
	return nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.New(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("database migrate failed: %w", err)
	}
	return db, nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (assistant.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return myopenai.New(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.RequestTimeout), nil
	case config.ProviderAnthropic:
		return anthropic.New(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.RequestTimeout), nil
	default:
		client, err := gemini.NewClient(ctx, cfg.GoogleAPIKey, cfg.LLMModel, "", cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func waitForShutdown(server *http.Server, scheduler *digest.Scheduler, logger *log.Logger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	logger.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("server shutdown error: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
}
