package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"ticketyboo/clock"
	"ticketyboo/config"
	"ticketyboo/db"
	"ticketyboo/entities"
	ticketsHttp "ticketyboo/http"
	"ticketyboo/ledger"
	"ticketyboo/message"
	"ticketyboo/message/event"
	"ticketyboo/metrics"
	"ticketyboo/migrations"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	httpAddr        string

	rebuildSalesReadModel func(ctx context.Context) error

	Catalog *db.Catalog
	Ledger  *ledger.Ledger
}

// Dependencies are the external connections the service runs on. Every
// field is optional: without Redis or Postgres the service runs fully in
// process.
type Dependencies struct {
	RedisClient *redis.Client
	DB          *db.DB
	Clock       clock.Clock
}

func New(cfg config.Config, deps Dependencies) (Service, error) {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var events []entities.Event
	if cfg.SeedCatalog {
		events = db.SeedEvents()
	}
	catalog, err := db.NewCatalog(events...)
	if err != nil {
		return Service{}, fmt.Errorf("could not build catalog: %w", err)
	}

	var conn *sqlx.DB
	if deps.DB != nil {
		conn = deps.DB.Conn
	}

	transport, err := message.NewTransport(deps.RedisClient, conn, watermillLogger)
	if err != nil {
		return Service{}, fmt.Errorf("could not create message transport: %w", err)
	}
	log.FromContext(context.Background()).WithField("transport", transport.Kind).Info("Message transport selected")

	eventBus, err := event.NewBus(transport.Publisher)
	if err != nil {
		return Service{}, fmt.Errorf("could not create event bus: %w", err)
	}

	appMetrics := metrics.New()

	var (
		salesReadModel interface {
			event.SalesReadModel
			ticketsHttp.SalesReadModel
		}
		dataLake event.DataLake
		rebuild  func(ctx context.Context) error
	)
	if deps.DB != nil {
		salesReadModel = db.NewPostgresSalesReadModel(deps.DB)
		dataLakeRepo := db.NewDataLakeRepository(deps.DB)
		dataLake = dataLakeRepo

		if cfg.RebuildSalesReadModel {
			rebuild = func(ctx context.Context) error {
				return migrations.RebuildSalesReadModel(ctx, dataLakeRepo, salesReadModel)
			}
		}
	} else {
		salesReadModel = db.NewSalesReadModel()
	}

	watermillRouter, err := message.NewWatermillRouter(
		transport,
		event.NewHandler(salesReadModel, dataLake),
		message.RouterConfig{
			ThrottlePerSecond: cfg.EventsThrottlePerSecond,
			MetricsRegistry:   appMetrics.Registry(),
		},
		watermillLogger,
	)
	if err != nil {
		return Service{}, fmt.Errorf("could not create watermill router: %w", err)
	}

	purchaseLedger := ledger.New(
		catalog,
		db.NewPurchaseLog(),
		eventBus,
		appMetrics,
		deps.Clock,
	)

	echoRouter := ticketsHttp.NewHttpRouter(
		catalog,
		purchaseLedger,
		salesReadModel,
		appMetrics.Handler(),
	)

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		httpAddr:        cfg.HTTPAddr,

		rebuildSalesReadModel: rebuild,

		Catalog: catalog,
		Ledger:  purchaseLedger,
	}, nil
}

func (s Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// we don't want to start HTTP server before Watermill router (so service won't be healthy before it's ready)
		select {
		case <-s.watermillRouter.Running():
		case <-ctx.Done():
			return nil
		}

		log.FromContext(ctx).WithFields(logrus.Fields{"addr": s.httpAddr}).Info("Starting HTTP server")

		err := s.echoRouter.Start(s.httpAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if s.rebuildSalesReadModel != nil {
		errgrp.Go(func() error {
			select {
			case <-s.watermillRouter.Running():
			case <-ctx.Done():
				return nil
			}
			return s.rebuildSalesReadModel(ctx)
		})
	}

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
