package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signaltracker/tracker-api/internal/api/metrics"
	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// BatchEnqueuer accepts reading uploads for asynchronous ingestion.
type BatchEnqueuer interface {
	EnqueueBatch(caller authz.Caller, inputs []ports.CreateReadingInput)
}

// ReadingHandler handles HTTP requests for signal reading resources.
type ReadingHandler struct {
	service ports.ReadingService
	batch   BatchEnqueuer
}

func NewReadingHandler(service ports.ReadingService, batch BatchEnqueuer) *ReadingHandler {
	return &ReadingHandler{service: service, batch: batch}
}

// Create handles POST /api/v1/readings.
//
// @Summary      Upload a signal reading
// @Tags         readings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Makes retried uploads return the original reading"
// @Param        body             body      createReadingRequest  true   "Reading details"
// @Success      200              {object}  readingResponse       "Replayed from a matching idempotency key"
// @Success      201              {object}  readingResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /api/v1/readings [post]
func (h *ReadingHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createReadingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Create(c.Request().Context(), caller, ports.CreateReadingInput{
		DeviceID:       req.DeviceID,
		CellTowerID:    req.CellTowerID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		SignalType:     req.SignalType,
		SignalValue:    req.SignalValue,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.ReadingsIngestedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, toReadingResponse(result.Reading))
	}

	metrics.ReadingsIngestedTotal.WithLabelValues("created").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/readings/%d", result.Reading.ID))
	return c.JSON(http.StatusCreated, toReadingResponse(result.Reading))
}

// CreateBatch handles POST /api/v1/readings/batch. Readings are queued to
// the sharded dispatcher and stored asynchronously in per-device order;
// per-item failures are logged, not reported.
//
// @Summary      Upload a batch of signal readings
// @Tags         readings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchReadingsRequest  true  "Readings to ingest"
// @Success      202   {object}  batchAcceptedResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/readings/batch [post]
func (h *ReadingHandler) CreateBatch(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req batchReadingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inputs := make([]ports.CreateReadingInput, 0, len(req.Readings))
	for _, r := range req.Readings {
		inputs = append(inputs, ports.CreateReadingInput{
			DeviceID:    r.DeviceID,
			CellTowerID: r.CellTowerID,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			SignalType:  r.SignalType,
			SignalValue: r.SignalValue,
		})
	}
	h.batch.EnqueueBatch(caller, inputs)

	return c.JSON(http.StatusAccepted, batchAcceptedResponse{Accepted: len(inputs)})
}

// Get handles GET /api/v1/readings/:id.
//
// @Summary      Get a reading by id
// @Tags         readings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Reading id"
// @Success      200  {object}  readingResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "Ownership chain is broken"
// @Router       /api/v1/readings/{id} [get]
func (h *ReadingHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	reading, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading))
}

// List handles GET /api/v1/readings.
//
// @Summary      List all readings (admin only)
// @Tags         readings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   readingResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/readings [get]
func (h *ReadingHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	readings, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]readingResponse, 0, len(readings))
	for _, r := range readings {
		resp = append(resp, toReadingResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// Patch handles PATCH /api/v1/readings/:id. Only location and signal fields
// are mutable; device and tower associations are fixed at creation.
//
// @Summary      Partially update a reading
// @Tags         readings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Reading id"
// @Param        body  body      patchReadingRequest  true  "Fields to update"
// @Success      200   {object}  readingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/readings/{id} [patch]
func (h *ReadingHandler) Patch(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req patchReadingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reading, err := h.service.Patch(c.Request().Context(), caller, id, ports.ReadingPatch{
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		SignalType:  req.SignalType,
		SignalValue: req.SignalValue,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading))
}

// Delete handles DELETE /api/v1/readings/:id.
//
// @Summary      Delete a reading
// @Tags         readings
// @Security     BearerAuth
// @Param        id  path  int  true  "Reading id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/readings/{id} [delete]
func (h *ReadingHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
