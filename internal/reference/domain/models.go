package domain

// Segment is one entry of the business-segment dropdown the customer form
// offers. The catalog is seeded by the operator, never written through the
// API.
type Segment struct {
	ID          int64  `json:"id" gorm:"primaryKey;column:id"`
	Description string `json:"description" gorm:"type:text;not null"`
}

func (Segment) TableName() string { return "segments" }

// CancelReasonOption is the wire shape of one churn-survey dropdown entry.
type CancelReasonOption struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}
