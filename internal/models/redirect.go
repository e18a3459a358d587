package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RedirectRuleType string

const (
	RuleURLToURL      RedirectRuleType = "url_to_url"
	RuleProductToURL  RedirectRuleType = "product_to_url"
	RuleCategoryToURL RedirectRuleType = "category_to_url"
)

// RedirectTargetType mirrors the remote platform's redirect target enum.
type RedirectTargetType int

const (
	TargetOwnURL RedirectTargetType = iota
	TargetProduct
	TargetCategory
	TargetProducer
	TargetInfoPage
	TargetNews
	TargetNewsCategory
)

// RedirectRule is a local redirect intent plus the remote tracking state
// the reconciliation engine maintains for it.
type RedirectRule struct {
	ID       string           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShopID   string           `json:"shop_id" gorm:"type:uuid;not null"`
	RuleType RedirectRuleType `json:"rule_type" gorm:"default:url_to_url"`

	// URL→URL rules fill SourceURL directly; product/category rules may
	// leave it empty and have it derived from the object's storefront path.
	SourceURL  string `json:"source_url"`
	ProductID  *int64 `json:"product_id"`
	CategoryID *int64 `json:"category_id"`

	TargetURL      string             `json:"target_url"`
	TargetType     RedirectTargetType `json:"target_type" gorm:"default:0"`
	TargetObjectID *int64             `json:"target_object_id"`

	StatusCode int  `json:"status_code" gorm:"default:301"`
	Active     bool `json:"active" gorm:"default:true"`

	// Remote tracking.
	RemoteID       string     `json:"remote_id"`
	LastSyncStatus string     `json:"last_sync_status"`
	LastSyncAt     *time.Time `json:"last_sync_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Shop Shop `json:"shop" gorm:"foreignKey:ShopID"`
}

func (r *RedirectRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
