package purchase

import "time"

// Supplier represents the suppliers table. Network partners fulfil orders
// through the distributor flow.
type Supplier struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Name             string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Phone            string    `gorm:"column:phone;type:varchar(32)" json:"phone,omitempty"`
	IsNetworkPartner bool      `gorm:"column:is_network_partner;not null;default:false" json:"is_network_partner"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
