package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BlockType says why a customer was cut off from the system.
type BlockType string

const (
	BlockTypeManual  BlockType = "manual"
	BlockTypeOverdue BlockType = "overdue"
)

func ParseBlockType(raw string) (BlockType, error) {
	switch BlockType(raw) {
	case BlockTypeManual, BlockTypeOverdue:
		return BlockType(raw), nil
	}
	return "", ErrInvalidBlockType
}

// Customer is one reseller client. Blocking is independent from Active:
// an inactive customer is churned, a blocked one is locked out until the
// block is lifted.
type Customer struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	CNPJ          string       `json:"cnpj" gorm:"type:text;not null;uniqueIndex"`
	CorporateName string       `json:"corporate_name" gorm:"column:corporate_name;type:text;not null"`
	TradeName     string       `json:"trade_name" gorm:"column:trade_name;type:text"`
	Email         string       `json:"email" gorm:"type:text;not null"`
	Phone         string       `json:"phone" gorm:"type:text"`
	Segment       string       `json:"segment" gorm:"type:text"`

	Street   string `json:"street" gorm:"type:text"`
	Number   string `json:"number" gorm:"type:text"`
	District string `json:"district" gorm:"type:text"`
	City     string `json:"city" gorm:"type:text"`
	State    string `json:"state" gorm:"type:text"`
	ZipCode  string `json:"zip_code" gorm:"column:zip_code;type:text"`

	Active  bool `json:"active" gorm:"not null;default:true"`
	Blocked bool `json:"blocked" gorm:"not null;default:false"`

	BlockType    BlockType  `json:"block_type,omitempty" gorm:"column:block_type;type:text"`
	BlockReason  string     `json:"block_reason,omitempty" gorm:"column:block_reason;type:text"`
	BlockMessage string     `json:"block_message,omitempty" gorm:"column:block_message;type:text"`
	BlockedAt    *time.Time `json:"blocked_at,omitempty" gorm:"column:blocked_at"`
	UnblockAt    *time.Time `json:"unblock_at,omitempty" gorm:"column:unblock_at"`

	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }
