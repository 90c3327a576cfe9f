package http

import (
	"net/http"
	"strconv"
	"ticketyboo/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func (h Handler) PostPurchase(c echo.Context) error {
	var request entities.PurchaseRequest
	if err := c.Bind(&request); err != nil {
		return respondWithCode(c, entities.CodeInvalidRequest)
	}

	ctx := c.Request().Context()

	purchase, err := h.ledger.Purchase(ctx, request)
	if err != nil {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"event_id": string(request.EventID),
			"quantity": string(request.Quantity),
			"code":     entities.Code(err),
		}).WithError(err).Info("Purchase rejected")

		return respondWithError(c, err)
	}

	return c.JSON(http.StatusCreated, entities.PurchaseResponse{
		Success:  true,
		Purchase: purchase,
	})
}

func (h Handler) GetPurchases(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.ListPurchases(c.Request().Context()))
}

func (h Handler) GetPurchase(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return respondWithCode(c, entities.CodePurchaseNotFound)
	}

	purchase, err := h.ledger.GetPurchase(c.Request().Context(), id)
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, purchase)
}
