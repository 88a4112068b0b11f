package domain

import "time"

// Device is a physical handset owned by exactly one user. Deleting a device
// cascades to its readings; deleting the owning user cascades to the device.
type Device struct {
	ID           int64     `bson:"_id"`
	UserID       int64     `bson:"user_id"`
	Manufacturer string    `bson:"manufacturer"`
	Model        string    `bson:"model"`
	SerialNo     string    `bson:"serial_no"`
	OSVersion    string    `bson:"os_version"`
	UpdatedAt    time.Time `bson:"timestamp"`
}
