package http

import (
	"errors"
	"net/http"
	"strconv"
	"ticketyboo/entities"

	"github.com/labstack/echo/v4"
)

func (h Handler) GetEvents(c echo.Context) error {
	category := entities.Category(c.QueryParam("type"))

	return c.JSON(http.StatusOK, h.catalog.ListEvents(c.Request().Context(), category))
}

func (h Handler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respondWithCode(c, entities.CodeEventNotFoundOnLookup)
	}

	event, err := h.catalog.GetEvent(c.Request().Context(), id)
	if errors.Is(err, entities.ErrEventNotFound) {
		return respondWithCode(c, entities.CodeEventNotFoundOnLookup)
	}
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, event)
}
