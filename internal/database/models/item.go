package models

// Item type discriminator values
const (
	ItemTypePro = "pro"
	ItemTypeCon = "con"
)

// Item is a weighted argument attached to a decision
type Item struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	DecisionID uint    `gorm:"not null;index" json:"decision_id"`
	Text       string  `gorm:"not null" json:"text"`
	Weight     float64 `gorm:"not null;default:0" json:"weight"`
	Type       string  `gorm:"not null;default:pro" json:"type"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "items"
}

// ValidItemType reports whether t is one of the two allowed discriminators
func ValidItemType(t string) bool {
	return t == ItemTypePro || t == ItemTypeCon
}
