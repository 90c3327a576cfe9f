package http

import (
	"net/http"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string             `json:"error"`
	Code  entities.ErrorCode `json:"code"`
}

var errorResponses = map[entities.ErrorCode]struct {
	status  int
	message string
}{
	entities.CodeMissingField:          {http.StatusBadRequest, "Missing required fields"},
	entities.CodeInvalidQuantity:       {http.StatusBadRequest, "Quantity must be a positive whole number"},
	entities.CodeInvalidRequest:        {http.StatusBadRequest, "Invalid request body"},
	entities.CodeEventNotFound:         {http.StatusNotFound, "Event not found"},
	entities.CodeEventNotFoundOnLookup: {http.StatusNotFound, "Event not found"},
	entities.CodePurchaseNotFound:      {http.StatusNotFound, "Purchase not found"},
	entities.CodeSalesNotFound:         {http.StatusNotFound, "No sales recorded for event"},
	entities.CodeInsufficientInventory: {http.StatusConflict, "Not enough tickets available"},
	entities.CodeInternal:              {http.StatusInternalServerError, "Internal server error"},
}

func respondWithCode(c echo.Context, code entities.ErrorCode) error {
	resp, ok := errorResponses[code]
	if !ok {
		resp = errorResponses[entities.CodeInternal]
	}

	return c.JSON(resp.status, errorResponse{
		Error: resp.message,
		Code:  code,
	})
}

// respondWithError writes the error body for err. Errors that are not part
// of the domain taxonomy are logged and hidden behind a 500.
func respondWithError(c echo.Context, err error) error {
	code := entities.Code(err)
	if code == entities.CodeInternal {
		log.FromContext(c.Request().Context()).WithError(err).Error("Request failed")
	}

	return respondWithCode(c, code)
}
