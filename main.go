// Entry point for the EcoFleet CO2 prediction service.
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

	"github.com/rs/cors"

	"github.com/ecofleet/ecofleet-go/pkg/config"
	ml "github.com/ecofleet/ecofleet-go/pipelines/ml"
	"github.com/ecofleet/ecofleet-go/utils"
)

const ecofleetVersion = "v0.1.0"

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config.yaml: %v\n", err)
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	args := os.Args[1:]
	if len(args) == 0 {
		runServer(cfg, cfg.Port)
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
		return
	case "--version", "-v":
		fmt.Println("EcoFleet version:", ecofleetVersion)
		return
	case "--server":
		port := cfg.Port
		if len(args) > 1 {
			port = args[1]
		}
		runServer(cfg, port)
		return
	case "--train":
		if len(args) > 2 && args[1] == "--schedule" {
			runScheduledTraining(cfg, args[2])
			return
		}
		if err := runTraining(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
			os.Exit(1)
		}
		return
	default:
		fmt.Fprintln(os.Stderr, "Unknown argument. Use --help for usage.")
		os.Exit(1)
	}
}

// runTraining executes one batch training run end to end.
func runTraining(cfg *config.Config) error {
	logger := utils.GetLogger()

	trainer := ml.NewTrainer(ml.DefaultSchema(), &ml.TrainingConfig{
		DataPath:       cfg.Training.DataPath,
		ModelPath:      cfg.ModelPath,
		MetadataPath:   cfg.MetadataPath,
		TrainTestSplit: cfg.Training.TrainTestSplit,
		NumTrees:       cfg.Training.NumTrees,
		MaxDepth:       cfg.Training.MaxDepth,
		RandomSeed:     cfg.Training.RandomSeed,
	})

	logger.Info("Training started",
		utils.String("data", cfg.Training.DataPath),
		utils.Int("trees", cfg.Training.NumTrees),
		utils.Component("trainer"))

	result, err := trainer.Run()
	if err != nil {
		return err
	}

	logger.Info("Training finished",
		utils.String("metrics", result.Metrics.String()),
		utils.Int("train_rows", result.TrainingRows),
		utils.Int("test_rows", result.ValidationRows),
		utils.Int("dropped_rows", result.DroppedRows),
		utils.Float("duration_s", result.TrainingDuration.Seconds()),
		utils.Component("trainer"))
	logger.Info("Artifacts written",
		utils.String("model", cfg.ModelPath),
		utils.String("metadata", cfg.MetadataPath),
		utils.Component("trainer"))

	return nil
}

// runScheduledTraining re-runs training on a cron schedule and blocks.
func runScheduledTraining(cfg *config.Config, spec string) {
	scheduler, err := utils.NewRetrainScheduler(spec, func() error {
		return runTraining(cfg)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	utils.GetLogger().Info("Scheduled training started",
		utils.String("schedule", spec),
		utils.Component("scheduler"))

	if err := scheduler.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Scheduler failed: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cfg *config.Config, port string) {
	server, err := NewServer(cfg)
	if err != nil {
		// No model, no service.
		log.Fatalf("Failed to start server: %v", err)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(server.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting EcoFleet server on port %s", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}
	server.Close()

	log.Println("Server exited")
}

func printHelp() {
	fmt.Println("Usage:")
	fmt.Println("  (no arguments)                  Start HTTP server on the configured port")
	fmt.Println("  --server [port]                 Start HTTP server (default port: 8080)")
	fmt.Println("  --train                         Run one training job and exit")
	fmt.Println("  --train --schedule <cron expr>  Re-run training on a cron schedule")
	fmt.Println("  -h, --help, help                Show this help message")
	fmt.Println("  -v, --version                   Show EcoFleet version")
}
