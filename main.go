package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/quizbot/internal/bot"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 5 * time.Second

// service is the part of the bot the process lifecycle drives
type service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config, err := bot.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Signal channel
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	b, err := bot.NewBot(config)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	run(context.Background(), b, sigChan)
	log.Println("Bot stopped successfully")
}

// run starts svc and blocks until a signal arrives or svc stops on its own,
// then shuts svc down
func run(parent context.Context, svc service, signals <-chan os.Signal) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Closed once shutdown is complete
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-signals:
			log.Printf("Received signal: %v\n", sig)
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := svc.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Bot error: %v", err)
		}
		cancel()
	}()

	<-done
}
