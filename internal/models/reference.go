package models

// Tabelas de vocabulário controlado: id + nome único.

type Status struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

type Channel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

type Department struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

// RefKind identifica uma das tabelas de referência.
type RefKind string

const (
	KindStatus     RefKind = "status"
	KindChannel    RefKind = "canal"
	KindDepartment RefKind = "setor"
	KindCategory   RefKind = "categoria"
)

var RefKinds = []RefKind{KindStatus, KindChannel, KindDepartment, KindCategory}

func ParseRefKind(s string) (RefKind, bool) {
	for _, k := range RefKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Table devolve a tabela gorm do tipo.
func (k RefKind) Table() string {
	switch k {
	case KindStatus:
		return "statuses"
	case KindChannel:
		return "channels"
	case KindDepartment:
		return "departments"
	case KindCategory:
		return "categories"
	}
	return ""
}

// AppointmentColumn: coluna de Appointment que referencia o tipo.
func (k RefKind) AppointmentColumn() string {
	switch k {
	case KindStatus:
		return "status"
	case KindChannel:
		return "channel"
	case KindDepartment:
		return "setor"
	case KindCategory:
		return "category"
	}
	return ""
}

func (k RefKind) Label() string {
	switch k {
	case KindStatus:
		return "Status"
	case KindChannel:
		return "Canal"
	case KindDepartment:
		return "Setor"
	case KindCategory:
		return "Categoria"
	}
	return string(k)
}

// RefValue: linha genérica de qualquer tabela de referência.
type RefValue struct {
	ID   uint
	Name string
}
