package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"binhoard-api/internal/common"

	"github.com/google/uuid"
)

// StringList stores a slice of strings as a JSON text column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}

	return json.Unmarshal(data, (*[]string)(l))
}

// Bin represents a storage container record
type Bin struct {
	ID         common.BinID       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	LocationID common.LocationID  `json:"location_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	AreaID     *common.AreaID     `json:"area_id,omitempty" gorm:"type:varchar(36);index"`
	Name       string             `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Items      StringList         `json:"items" gorm:"type:text"`
	Tags       StringList         `json:"tags" gorm:"type:text"`
	Notes      string             `json:"notes" gorm:"type:text"`
	Icon       string             `json:"icon" gorm:"type:varchar(50)"`
	Color      string             `json:"color" gorm:"type:varchar(50)"`
	ShortCode  string             `json:"short_code" gorm:"type:varchar(12);not null;uniqueIndex"`
	CreatedAt  time.Time          `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time          `json:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// Area represents a named grouping of bins within a location
type Area struct {
	ID         common.AreaID     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	LocationID common.LocationID `json:"location_id" gorm:"type:varchar(36);not null;index" validate:"required"`
	Name       string            `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	CreatedAt  time.Time         `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `json:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// NewShortCode generates a short human-readable code for labels and QR
// references. Uniqueness is enforced by the store, not here.
func NewShortCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "BH-" + strings.ToUpper(raw[:6])
}

// HasItem checks whether the bin contains an item, case-insensitively
func (b Bin) HasItem(item string) bool {
	for _, existing := range b.Items {
		if strings.EqualFold(existing, item) {
			return true
		}
	}
	return false
}

// HasTag checks whether the bin carries a tag, case-insensitively
func (b Bin) HasTag(tag string) bool {
	for _, existing := range b.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// TableName returns the table name for the Bin model
func (Bin) TableName() string {
	return "bins"
}

// TableName returns the table name for the Area model
func (Area) TableName() string {
	return "areas"
}
