package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	voxo "github.com/kbujak09/voxo-backend"
	"github.com/kbujak09/voxo-backend/config"
	"github.com/kbujak09/voxo-backend/middleware/jwtware"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("voxod"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := openDB(ctx, cfg.DSN)
	if err != nil {
		logger.Error("database bootstrap error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := voxo.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		logger.Error("repository bootstrap error", "error", err)
		os.Exit(1)
	}

	auther := voxo.NewAuthenticator(repo.Users(), cfg).
		WithLogger(lgr.GetLogger("auth"))

	app := fiber.New(fiber.Config{
		AppName: "voxo-backend",
	})

	protected := jwtware.New(jwtware.Config{
		TokenValidator: jwtware.ValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
			claims, err := auther.TokenService().Validate(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
	})

	voxo.RegisterAccountRoutes(app, protected,
		voxo.WithControllerRepo(repo),
		voxo.WithControllerAuther(auther),
		voxo.WithControllerLogger(lgr.GetLogger("accounts")),
		voxo.WithControllerDebug(cfg.Debug),
	)

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	waitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("bye")
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to ping database")
	}

	if err := voxo.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

func waitExitSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
