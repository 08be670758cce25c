package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/taskdeck/service-task-go/internal/account"
	accountrepo "github.com/taskdeck/service-task-go/internal/account/repo"
	"github.com/taskdeck/service-task-go/internal/router"
	"github.com/taskdeck/service-task-go/internal/task"
	taskrepo "github.com/taskdeck/service-task-go/internal/task/repo"
	"github.com/taskdeck/service-task-go/internal/token"
	"github.com/taskdeck/service-task-go/pkg/database"
	"github.com/taskdeck/service-task-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// best-effort: if no .env exists, continue with real env or defaults
	_ = godotenv.Load()

	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-task-go")

	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	accountRepo := accountrepo.NewAccountRepo(sqlxDB)
	taskRepo := taskrepo.NewTaskRepo(sqlxDB)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()
	if err := accountRepo.EnsureTable(bootCtx); err != nil {
		sugar.Fatalf("ensure accounts table: %v", err)
	}
	if err := taskRepo.EnsureTable(bootCtx); err != nil {
		sugar.Fatalf("ensure tasks table: %v", err)
	}

	tokens := token.NewService(token.ConfigFromEnv())
	accounts := account.NewService(accountRepo, nil, tokens, sugar)
	tasks := task.NewService(taskRepo, sugar)

	handler := router.RegisterRoutes(router.Deps{
		Accounts: accounts,
		Tasks:    tasks,
		Tokens:   tokens,
		Lookup:   account.GateLookup(accountRepo),
		Logger:   sugar,
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8430"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
