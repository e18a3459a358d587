package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module is a saved view over one remote resource: which resource, an
// optional API path override, and the ordered field columns the user picked
// from the attributes discovered live on that deployment.
type Module struct {
	ID              string        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShopID          string        `json:"shop_id" gorm:"type:uuid;not null"`
	Name            string        `json:"name" gorm:"not null"`
	Resource        string        `json:"resource" gorm:"not null"`
	APIPathOverride string        `json:"api_path_override"`
	FieldsConfig    []FieldColumn `json:"fields_config" gorm:"serializer:json"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Shop Shop `json:"shop" gorm:"foreignKey:ShopID"`
}

// FieldColumn is one configured column: the dotted attribute key, the label
// shown for it, and its display order.
type FieldColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Order int    `json:"order"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
