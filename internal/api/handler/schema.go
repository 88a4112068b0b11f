package handler

import (
	"time"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---
//
// Create requests carry validate tags; patch requests use pointer fields so
// an absent field and an explicitly empty field stay distinguishable after
// binding. Coordinates are decimal strings end to end.

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	Role      string `json:"role"       validate:"required,oneof=USER ADMIN"`
}

type patchUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"    validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Role      *string `json:"role"     validate:"omitempty,oneof=USER ADMIN"`
}

type createDeviceRequest struct {
	UserID       int64  `json:"user_id"      validate:"required"`
	Manufacturer string `json:"manufacturer" validate:"required"`
	Model        string `json:"model"        validate:"required"`
	SerialNo     string `json:"serial_no"    validate:"required"`
	OSVersion    string `json:"os_version"`
}

type patchDeviceRequest struct {
	Manufacturer *string `json:"manufacturer"`
	Model        *string `json:"model"`
	SerialNo     *string `json:"serial_no"`
	OSVersion    *string `json:"os_version"`
}

type createReadingRequest struct {
	DeviceID    int64  `json:"device_id"    validate:"required"`
	CellTowerID int64  `json:"celltower_id" validate:"required"`
	Latitude    string `json:"latitude"     validate:"required,decimal"`
	Longitude   string `json:"longitude"    validate:"required,decimal"`
	SignalType  string `json:"signal_type"  validate:"required"`
	SignalValue *int   `json:"signal_value" validate:"required"`
}

type patchReadingRequest struct {
	Latitude    *string `json:"latitude"    validate:"omitempty,decimal"`
	Longitude   *string `json:"longitude"   validate:"omitempty,decimal"`
	SignalType  *string `json:"signal_type"`
	SignalValue *int    `json:"signal_value"`
}

type batchReadingsRequest struct {
	Readings []createReadingRequest `json:"readings" validate:"required,min=1,dive"`
}

type createCellTowerRequest struct {
	Name              string `json:"celltower_name"      validate:"required"`
	LocationAreaCode  string `json:"location_area_code"  validate:"required"`
	MobileCountryCode string `json:"mobile_country_code" validate:"required"`
	MobileNetworkCode string `json:"mobile_network_code" validate:"required"`
	Latitude          string `json:"latitude"            validate:"required,decimal"`
	Longitude         string `json:"longitude"           validate:"required,decimal"`
}

type patchCellTowerRequest struct {
	Name              *string `json:"celltower_name"`
	LocationAreaCode  *string `json:"location_area_code"`
	MobileCountryCode *string `json:"mobile_country_code"`
	MobileNetworkCode *string `json:"mobile_network_code"`
	Latitude          *string `json:"latitude"  validate:"omitempty,decimal"`
	Longitude         *string `json:"longitude" validate:"omitempty,decimal"`
}

// --- Response types ---
//
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes. Timestamps render as RFC3339 UTC strings;
// password hashes never leave the service.

type userResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

type deviceResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	SerialNo     string `json:"serial_no"`
	OSVersion    string `json:"os_version,omitempty"`
	Timestamp    string `json:"timestamp"`
}

type readingResponse struct {
	ID          int64  `json:"id"`
	DeviceID    int64  `json:"device_id"`
	CellTowerID int64  `json:"celltower_id"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	SignalType  string `json:"signal_type"`
	SignalValue int    `json:"signal_value"`
	Timestamp   string `json:"timestamp"`
}

type cellTowerResponse struct {
	ID                int64  `json:"id"`
	Name              string `json:"celltower_name"`
	LocationAreaCode  string `json:"location_area_code"`
	MobileCountryCode string `json:"mobile_country_code"`
	MobileNetworkCode string `json:"mobile_network_code"`
	Latitude          string `json:"latitude"`
	Longitude         string `json:"longitude"`
	Timestamp         string `json:"timestamp"`
}

type batchAcceptedResponse struct {
	Accepted int `json:"accepted"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Timestamp: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toDeviceResponse(d *domain.Device) deviceResponse {
	return deviceResponse{
		ID:           d.ID,
		UserID:       d.UserID,
		Manufacturer: d.Manufacturer,
		Model:        d.Model,
		SerialNo:     d.SerialNo,
		OSVersion:    d.OSVersion,
		Timestamp:    d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toReadingResponse(r *domain.Reading) readingResponse {
	return readingResponse{
		ID:          r.ID,
		DeviceID:    r.DeviceID,
		CellTowerID: r.CellTowerID,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		SignalType:  r.SignalType,
		SignalValue: r.SignalValue,
		Timestamp:   r.Timestamp.UTC().Format(time.RFC3339),
	}
}

func toCellTowerResponse(t *domain.CellTower) cellTowerResponse {
	return cellTowerResponse{
		ID:                t.ID,
		Name:              t.Name,
		LocationAreaCode:  t.LocationAreaCode,
		MobileCountryCode: t.MobileCountryCode,
		MobileNetworkCode: t.MobileNetworkCode,
		Latitude:          t.Latitude,
		Longitude:         t.Longitude,
		Timestamp:         t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
