package models

import (
	"time"

	"gorm.io/gorm"
)

// Agendamento. Status, Setor, Canal e Categoria guardam o nome único do valor de
// referência; a validação acontece na fronteira do serviço.
type Appointment struct {
	gorm.Model

	ScheduledDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_slot_owner,where:deleted_at IS NULL"`
	TimeSlot      string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_slot_owner,where:deleted_at IS NULL"` // HH:MM
	Coordinator   string    `gorm:"size:150;not null;default:'';uniqueIndex:idx_slot_owner,where:deleted_at IS NULL"`

	Channel  string `gorm:"size:100;not null"`
	Category string `gorm:"size:100;not null"`
	Status   string `gorm:"size:50;not null;index"`
	Setor    string `gorm:"size:100;not null;index"`

	Responsible1Name string `gorm:"size:150;not null"`
	Responsible1CPF  string `gorm:"size:11;not null"`
	Responsible2Name string `gorm:"size:150;not null"`
	Responsible2CPF  string `gorm:"size:11;not null"`

	StudentName   string `gorm:"size:150"`
	StudentSchool string `gorm:"size:255"`
	Reason        string `gorm:"type:text"`
	Observation   string `gorm:"type:text"`
}

// DateString: data no formato dos formulários (YYYY-MM-DD).
func (a Appointment) DateString() string {
	if a.ScheduledDate.IsZero() {
		return ""
	}
	return a.ScheduledDate.Format("2006-01-02")
}
