package models

import (
	"gorm.io/gorm"
)

// Dorm is managed by an external CRUD surface; this service only reads it
// for existence and ownership checks.
type Dorm struct {
	gorm.Model

	Name         string `json:"name" gorm:"size:255"`
	OwnerAdminID uint   `json:"ownerAdminId" gorm:"column:owner_admin_id;index"`
	Address      string `json:"address" gorm:"type:text"`
	Zone         string `json:"zone" gorm:"type:varchar(50)"`

	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:DormID"`
}
