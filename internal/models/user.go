package models

import (
	"strings"

	"gorm.io/gorm"
)

// Role: conjunto fechado de papéis do fluxo. Perfis desconhecidos caem em RoleCoordination.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleFinance      Role = "financeiro"
	RoleCoordination Role = "coordenacao"
)

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string `gorm:"not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	Profile      string `gorm:"size:50;not null;default:'user'"` // admin, financeiro ou qualquer outro (coordenação)
	Setor        string `gorm:"size:100"`
}

// ParseProfile mapeia o perfil gravado para um Role. ok=false quando o perfil não é
// reconhecido e foi absorvido pela coordenação.
func ParseProfile(profile string) (role Role, ok bool) {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "admin":
		return RoleAdmin, true
	case "financeiro":
		return RoleFinance, true
	case "", "user", "coordenacao", "coordenação":
		return RoleCoordination, true
	default:
		return RoleCoordination, false
	}
}

// Role resolve o papel efetivo: a flag is_admin vence o perfil.
func (u User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	r, _ := ParseProfile(u.Profile)
	return r
}
