package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlis/lis-backend/internal/api/metrics"
	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

// ResultHandler handles HTTP requests for results.
type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{service: service}
}

// Create handles POST /results/.
//
// @Summary      Create a result
// @Tags         results
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createResultRequest  true  "Result"
// @Success      200   {object}  resultResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse  "Validation failure or unknown order"
// @Router       /results/ [post]
func (h *ResultHandler) Create(c echo.Context) error {
	var req createResultRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateResultInput{
		OrderID: req.OrderID,
		Value:   req.Value,
	})
	if err != nil {
		return err
	}

	metrics.RecordsCreatedTotal.WithLabelValues("result").Inc()
	return c.JSON(http.StatusOK, toResultResponse(result))
}

// List handles GET /results/.
//
// @Summary      List results
// @Tags         results
// @Produce      json
// @Param        order_id    query     int  false  "Only results for this order"
// @Success      200         {array}   resultResponse
// @Failure      422         {object}  errorResponse
// @Router       /results/ [get]
func (h *ResultHandler) List(c echo.Context) error {
	var filter ports.ResultFilter
	if err := echo.QueryParamsBinder(c).Int64("order_id", &filter.OrderID).BindError(); err != nil {
		return fmt.Errorf("%w: order_id must be an integer", domain.ErrValidation)
	}

	results, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(results, toResultResponse))
}

// Get handles GET /results/:id.
//
// @Summary      Get a result
// @Tags         results
// @Produce      json
// @Param        id   path      int  true  "Result ID"
// @Success      200  {object}  resultResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /results/{id} [get]
func (h *ResultHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResultResponse(result))
}
