package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	accounts "github.com/quipulabs/go-accounts"
)

func main() {
	base := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("accounts"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
	logger := base.GetLogger("server")

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger glog.Logger) error {
	cfg, err := accounts.LoadConfig()
	if err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to open database")
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := accounts.CreateSchema(ctx, db); err != nil {
		return err
	}

	repo := accounts.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := accounts.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		logger,
	)

	var mailer accounts.Mailer
	if cfg.MailConfigured() {
		mailer = accounts.NewSMTPMailer(
			cfg.MailHost,
			cfg.MailPort,
			cfg.MailUsername,
			cfg.MailPassword,
			cfg.MailFrom,
			logger,
		)
	} else {
		logger.Warn("mail transport not configured, logging email links instead")
		mailer = accounts.NewLogMailer(logger)
	}

	auther := accounts.NewAuthenticator(repo, tokens).WithLogger(logger)

	if err := os.MkdirAll(cfg.AvatarDir, 0o755); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create avatar directory")
	}

	authController := accounts.NewAuthController(
		accounts.WithRepo(repo),
		accounts.WithAuther(auther),
		accounts.WithControllerLogger(logger),
		accounts.WithAvatarStorage(accounts.NewAvatarStorage(cfg.AvatarDir)),
		accounts.WithMailer(mailer),
		accounts.WithDebug(cfg.Debug),
	)
	userController := accounts.NewUserController(repo, mailer, logger)

	app := accounts.NewServer(logger)
	accounts.RegisterRoutes(app, authController, userController, tokens)

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.GetHTTPAddr())
		errs <- app.Listen(cfg.GetHTTPAddr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return app.Shutdown()
	}
}
