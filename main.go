package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"ticketyboo/clock"
	"ticketyboo/config"
	"ticketyboo/db"
	"ticketyboo/message"
	"ticketyboo/service"
	observability "ticketyboo/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	level, err := cfg.Level()
	if err != nil {
		panic(err)
	}
	log.Init(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("Could not shut down trace provider")
		}
	}()

	deps := service.Dependencies{
		Clock: clock.System{},
	}

	if cfg.UseRedis() {
		rdb := message.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		deps.RedisClient = rdb
	}

	if cfg.UsePostgres() {
		conn, err := db.NewDBConn(cfg.PostgresURL)
		if err != nil {
			panic(err)
		}
		defer conn.Close()

		if err := conn.MigrateSchema(); err != nil {
			panic(err)
		}
		deps.DB = &conn
	}

	svc, err := service.New(cfg, deps)
	if err != nil {
		panic(err)
	}

	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
