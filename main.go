package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	subscriber "github.com/arthurdotwork/board/internal/adapters/primary/redis"
	"github.com/arthurdotwork/board/internal/adapters/primary/tasks"
	"github.com/arthurdotwork/board/internal/adapters/primary/ws"
	"github.com/arthurdotwork/board/internal/adapters/secondary/broadcaster"
	"github.com/arthurdotwork/board/internal/adapters/secondary/identity"
	"github.com/arthurdotwork/board/internal/adapters/secondary/rooms"
	"github.com/arthurdotwork/board/internal/adapters/secondary/snapshot"
	"github.com/arthurdotwork/board/internal/adapters/secondary/store"
	"github.com/arthurdotwork/board/internal/domain"
	"github.com/arthurdotwork/board/internal/infrastructure/db"
	"github.com/arthurdotwork/board/internal/infrastructure/log"
	"github.com/arthurdotwork/board/internal/infrastructure/pubsub"
	"github.com/arthurdotwork/board/internal/infrastructure/redis"
	"github.com/arthurdotwork/board/internal/infrastructure/runner"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()

	log.Config(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sig
		slog.DebugContext(ctx, "received signal, initiating shutdown")
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "error running server", "error", err)
	}
}

func run(ctx context.Context) error {
	redisAddr := env("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(redisAddr)

	database, err := db.Connect(env("MYSQL_DSN", "board:board@tcp(localhost:3306)/board?parseTime=true"))
	if err != nil {
		return fmt.Errorf("db.Connect: %w", err)
	}

	publisher := pubsub.NewPublisher(redisAddr)
	defer publisher.Close()

	registry := store.NewRegistry()
	directory := store.NewDirectory()
	snapshotStore := snapshot.NewStore(redisClient, publisher)
	roomVerifier := rooms.NewVerifier(database)
	redisBroadcaster := broadcaster.NewBroadcaster(redisClient)
	boardService := domain.NewBoardService(registry, directory, snapshotStore, roomVerifier, redisBroadcaster)

	identityVerifier := identity.NewVerifier(env("JWT_SECRET", "secret"))
	wsServer := ws.NewServer(boardService, identityVerifier)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", env("HTTP_PORT", "8080")),
		Handler: wsServer.Router(),
	}

	worker := tasks.NewWorker(pubsub.NewSubscriber(redisAddr), snapshotStore)
	worker.Register(ctx)

	r := runner.New(ctx)
	r.Go(func() error {
		errCh := make(chan error, 1)

		go func() {
			slog.DebugContext(ctx, "starting server", "address", srv.Addr)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "error serving", "error", err)
				errCh <- fmt.Errorf("srv.ListenAndServe: %w", err)
				return
			}

			slog.DebugContext(ctx, "server stopped", "address", srv.Addr)
			errCh <- nil
		}()

		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "context done, stopping server")
			return ctx.Err()
		case err := <-errCh:
			return err
		}
	})

	r.Go(func() error {
		sub := subscriber.NewSubscriber(redisClient, boardService)
		errCh := make(chan error, 1)

		go func() {
			errCh <- sub.Subscribe(ctx, domain.EventsChannel)
		}()

		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "context done, stopping subscriber")
			return ctx.Err()
		case err := <-errCh:
			if err != nil {
				slog.ErrorContext(ctx, "error subscribing", "error", err)
				return fmt.Errorf("sub.Subscribe: %w", err)
			}
		}

		slog.DebugContext(ctx, "subscriber stopped")
		return nil
	})

	r.Go(func() error {
		if err := worker.Start(); err != nil {
			slog.ErrorContext(ctx, "error starting worker", "error", err)
			return fmt.Errorf("worker.Start: %w", err)
		}

		<-ctx.Done()
		slog.DebugContext(ctx, "context done, stopping worker")
		return ctx.Err()
	})

	if err := r.Wait(); err != nil {
		slog.ErrorContext(ctx, "error running server", "error", err)
		return fmt.Errorf("errGroup.Wait: %w", err)
	}

	slog.DebugContext(ctx, "initiating server shutdown")

	// Channel to signal shutdown completion
	done := make(chan struct{})

	if err := boardService.Close(context.WithoutCancel(ctx), done); err != nil {
		slog.ErrorContext(ctx, "error closing board service", "error", err)
	}

	<-done

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "error shutting down http server", "error", err)
	}

	worker.Stop()

	return nil
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}
