package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// DeviceHandler handles HTTP requests for device resources.
type DeviceHandler struct {
	service ports.DeviceService
}

func NewDeviceHandler(service ports.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

// Create handles POST /api/v1/devices.
//
// @Summary      Register a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDeviceRequest  true  "Device details"
// @Success      201   {object}  deviceResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/devices [post]
func (h *DeviceHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	device, err := h.service.Create(c.Request().Context(), caller, ports.CreateDeviceInput{
		UserID:       req.UserID,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		SerialNo:     req.SerialNo,
		OSVersion:    req.OSVersion,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/devices/%d", device.ID))
	return c.JSON(http.StatusCreated, toDeviceResponse(device))
}

// Get handles GET /api/v1/devices/:id.
//
// @Summary      Get a device by id
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Device id"
// @Success      200  {object}  deviceResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/devices/{id} [get]
func (h *DeviceHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	device, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeviceResponse(device))
}

// List handles GET /api/v1/devices.
//
// @Summary      List all devices (admin only)
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   deviceResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/devices [get]
func (h *DeviceHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	devices, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]deviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, toDeviceResponse(d))
	}
	return c.JSON(http.StatusOK, resp)
}

// Patch handles PATCH /api/v1/devices/:id.
//
// @Summary      Partially update a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Device id"
// @Param        body  body      patchDeviceRequest  true  "Fields to update"
// @Success      200   {object}  deviceResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/devices/{id} [patch]
func (h *DeviceHandler) Patch(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req patchDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	device, err := h.service.Patch(c.Request().Context(), caller, id, ports.DevicePatch{
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		SerialNo:     req.SerialNo,
		OSVersion:    req.OSVersion,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeviceResponse(device))
}

// Delete handles DELETE /api/v1/devices/:id.
//
// @Summary      Delete a device and cascade to its readings
// @Tags         devices
// @Security     BearerAuth
// @Param        id  path  int  true  "Device id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/devices/{id} [delete]
func (h *DeviceHandler) Delete(c echo.Context) error {
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

// ListReadings handles GET /api/v1/devices/:id/readings?date=YYYY-MM-DD.
//
// @Summary      List a device's readings, optionally for one UTC day
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int     true   "Device id"
// @Param        date  query     string  false  "UTC day filter (YYYY-MM-DD)"
// @Success      200   {array}   readingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/devices/{id}/readings [get]
func (h *DeviceHandler) ListReadings(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var day *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		day = &d
	}

	readings, err := h.service.ListReadings(c.Request().Context(), caller, id, day)
	if err != nil {
		return err
	}

	resp := make([]readingResponse, 0, len(readings))
	for _, r := range readings {
		resp = append(resp, toReadingResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}
