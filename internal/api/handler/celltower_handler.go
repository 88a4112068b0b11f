package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signaltracker/tracker-api/internal/core/ports"
)

// CellTowerHandler handles HTTP requests for cell tower resources. Towers
// are shared reference data: reads are open to any authenticated caller,
// mutations are admin-only (enforced by the service).
type CellTowerHandler struct {
	service ports.CellTowerService
}

func NewCellTowerHandler(service ports.CellTowerService) *CellTowerHandler {
	return &CellTowerHandler{service: service}
}

// Create handles POST /api/v1/celltowers.
//
// @Summary      Register a cell tower (admin only)
// @Tags         celltowers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCellTowerRequest  true  "Tower details"
// @Success      201   {object}  cellTowerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/celltowers [post]
func (h *CellTowerHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createCellTowerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tower, err := h.service.Create(c.Request().Context(), caller, ports.CreateCellTowerInput{
		Name:              req.Name,
		LocationAreaCode:  req.LocationAreaCode,
		MobileCountryCode: req.MobileCountryCode,
		MobileNetworkCode: req.MobileNetworkCode,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/celltowers/%d", tower.ID))
	return c.JSON(http.StatusCreated, toCellTowerResponse(tower))
}

// Get handles GET /api/v1/celltowers/:id.
//
// @Summary      Get a cell tower by id
// @Tags         celltowers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Tower id"
// @Success      200  {object}  cellTowerResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/celltowers/{id} [get]
func (h *CellTowerHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tower, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCellTowerResponse(tower))
}

// List handles GET /api/v1/celltowers.
//
// @Summary      List all cell towers (admin only)
// @Tags         celltowers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   cellTowerResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/celltowers [get]
func (h *CellTowerHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	towers, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := make([]cellTowerResponse, 0, len(towers))
	for _, t := range towers {
		resp = append(resp, toCellTowerResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// Patch handles PATCH /api/v1/celltowers/:id.
//
// @Summary      Partially update a cell tower (admin only)
// @Tags         celltowers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Tower id"
// @Param        body  body      patchCellTowerRequest  true  "Fields to update"
// @Success      200   {object}  cellTowerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/celltowers/{id} [patch]
func (h *CellTowerHandler) Patch(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req patchCellTowerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tower, err := h.service.Patch(c.Request().Context(), caller, id, ports.CellTowerPatch{
		Name:              req.Name,
		LocationAreaCode:  req.LocationAreaCode,
		MobileCountryCode: req.MobileCountryCode,
		MobileNetworkCode: req.MobileNetworkCode,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCellTowerResponse(tower))
}

// Delete handles DELETE /api/v1/celltowers/:id. Deletion is refused while
// readings still reference the tower.
//
// @Summary      Delete a cell tower (admin only)
// @Tags         celltowers
// @Security     BearerAuth
// @Param        id  path  int  true  "Tower id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "Tower still referenced by readings"
// @Router       /api/v1/celltowers/{id} [delete]
func (h *CellTowerHandler) Delete(c echo.Context) error {
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
