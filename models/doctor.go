package models

import "time"

// DoctorDocument is one row of the doctors collection. The doctor fields live
// in Data exactly as they were written; the id is the row key.
type DoctorDocument struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Data      Document  `json:"data" gorm:"type:jsonb;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DoctorDocument) TableName() string {
	return "doctors"
}
