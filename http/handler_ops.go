package http

import (
	"net/http"
	"strconv"
	"ticketyboo/entities"

	"github.com/labstack/echo/v4"
)

func (h Handler) GetSales(c echo.Context) error {
	sales, err := h.salesReadModel.AllSales(c.Request().Context())
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, sales)
}

func (h Handler) GetSalesForEvent(c echo.Context) error {
	eventID, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
	if err != nil {
		return respondWithCode(c, entities.CodeSalesNotFound)
	}

	sales, err := h.salesReadModel.SalesForEvent(c.Request().Context(), eventID)
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, sales)
}
