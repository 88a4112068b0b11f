package domain

import "time"

// CellTower is a network cell site. Towers are shared reference data: they
// have no owning user and are referenced by readings from any device.
type CellTower struct {
	ID                int64     `bson:"_id"`
	Name              string    `bson:"celltower_name"`
	LocationAreaCode  string    `bson:"location_area_code"`
	MobileCountryCode string    `bson:"mobile_country_code"`
	MobileNetworkCode string    `bson:"mobile_network_code"`
	Latitude          string    `bson:"latitude"`
	Longitude         string    `bson:"longitude"`
	UpdatedAt         time.Time `bson:"timestamp"`
}
