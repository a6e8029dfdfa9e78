package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlis/lis-backend/internal/api/metrics"
	"github.com/openlis/lis-backend/internal/core/domain"
	"github.com/openlis/lis-backend/internal/core/ports"
)

// OrderHandler handles HTTP requests for lab orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders/.
//
// @Summary      Create a lab order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Lab order"
// @Success      200   {object}  orderResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse  "Validation failure or unknown patient"
// @Router       /orders/ [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.Create(c.Request().Context(), ports.CreateOrderInput{
		PatientID: req.PatientID,
		TestName:  req.TestName,
	})
	if err != nil {
		return err
	}

	metrics.RecordsCreatedTotal.WithLabelValues("order").Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /orders/.
//
// @Summary      List lab orders
// @Tags         orders
// @Produce      json
// @Param        patient_id  query     int  false  "Only orders for this patient"
// @Success      200         {array}   orderResponse
// @Failure      422         {object}  errorResponse
// @Router       /orders/ [get]
func (h *OrderHandler) List(c echo.Context) error {
	var filter ports.OrderFilter
	if err := echo.QueryParamsBinder(c).Int64("patient_id", &filter.PatientID).BindError(); err != nil {
		return fmt.Errorf("%w: patient_id must be an integer", domain.ErrValidation)
	}

	orders, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(orders, toOrderResponse))
}

// Get handles GET /orders/:id.
//
// @Summary      Get a lab order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
