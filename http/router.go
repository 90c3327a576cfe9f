package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	catalog Catalog,
	ledger Ledger,
	salesReadModel SalesReadModel,
	metricsHandler http.Handler,
) *echo.Echo {
	e := libHttp.NewEcho()

	e.Use(otelecho.Middleware("ticketyboo"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	handler := Handler{
		catalog:        catalog,
		ledger:         ledger,
		salesReadModel: salesReadModel,
	}

	e.GET("/api/events", handler.GetEvents)
	e.GET("/api/events/:id", handler.GetEvent)
	e.POST("/api/tickets/purchase", handler.PostPurchase)
	e.GET("/api/tickets", handler.GetPurchases)
	e.GET("/api/tickets/:id", handler.GetPurchase)

	e.GET("/ops/sales", handler.GetSales)
	e.GET("/ops/sales/:event_id", handler.GetSalesForEvent)

	return e
}
