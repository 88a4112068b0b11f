package domain

import "time"

// Reading is a single geolocated signal-strength observation. It is owned by
// the device that recorded it and weakly references the cell tower observed.
// Coordinates are carried as decimal strings end to end so values survive
// round trips without floating-point drift.
type Reading struct {
	ID             int64     `bson:"_id"`
	DeviceID       int64     `bson:"device_id"`
	CellTowerID    int64     `bson:"celltower_id"`
	Latitude       string    `bson:"latitude"`
	Longitude      string    `bson:"longitude"`
	SignalType     string    `bson:"signal_type"`
	SignalValue    int       `bson:"signal_value"`
	IdempotencyKey string    `bson:"idempotency_key,omitempty"`
	Timestamp      time.Time `bson:"timestamp"`
}
