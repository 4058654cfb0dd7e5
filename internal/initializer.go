// Package internal boots the server: configuration, logging, migrations,
// database pool, managers and the HTTP router.
package internal

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	"contact-hub/internal/config"
	"contact-hub/internal/managers"
	"contact-hub/internal/migrations"
	"contact-hub/internal/routing"
)

// Init loads the configuration, applies pending migrations and serves the API
// until the process receives an interrupt.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on the process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: " + err.Error())
	}

	initializeLogging(cfg)

	if err := runMigrations(cfg); err != nil {
		log.Fatal("Error applying migrations: " + err.Error())
	}

	pool := initializeDatabase(cfg)
	defer pool.Close()

	databaseMgr := managers.NewDatabaseManager(pool)
	jwtMgr := managers.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	mailMgr := managers.NewMailManager(cfg)
	storageMgr, err := managers.NewStorageManager(cfg)
	if err != nil {
		log.Fatal("Error initializing storage manager: " + err.Error())
	}

	router := routing.InitRouter(cfg, databaseMgr, mailMgr, jwtMgr, storageMgr)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		<-interrupt

		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down server: " + err.Error())
		}
	}()

	log.Info("Starting server on ", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Error starting server: " + err.Error())
	}
	log.Info("Server stopped")
}

func initializeLogging(cfg *config.Config) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetReportCaller(true)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("Unknown log level '" + cfg.LogLevel + "', falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// runMigrations applies the embedded goose migrations through database/sql,
// separate from the pgx pool serving requests.
func runMigrations(cfg *config.Config) error {
	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return goose.UpContext(ctx, db, ".")
}

func initializeDatabase(cfg *config.Config) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error parsing database configuration: " + err.Error())
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("Error creating database pool: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal("Error connecting to database: " + err.Error())
	}

	log.Info("Connected to database")
	return pool
}
