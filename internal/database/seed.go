package database

import (
	"context"
	"fmt"

	"agenda-escolar/internal/accounts"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SeedUser: conta criada pelo init-db quando ainda não existe.
type SeedUser struct {
	Username string
	Password string
	Email    string
	Profile  string
	IsAdmin  bool
}

// DefaultUsers: admin vem da configuração; coordenação e financeiro de demonstração.
func DefaultUsers(adminUsername, adminPassword, adminEmail string) []SeedUser {
	return []SeedUser{
		{Username: adminUsername, Password: adminPassword, Email: adminEmail, Profile: "admin", IsAdmin: true},
		{Username: "user", Password: "user", Email: "user@escola.local", Profile: "user"},
		{Username: "financeiro", Password: "financeiro", Email: "financeiro@escola.local", Profile: "financeiro"},
	}
}

// vocabulários iniciais
var defaultRefValues = map[models.RefKind][]string{
	models.KindChannel:    {"Telefone", "Email", "Presencial", "WhatsApp"},
	models.KindDepartment: {"Comercial", "Acadêmico", workflow.DepartmentFinance, "Fund. Anos Iniciais", "Fund. Anos Finais", "Ensino Médio"},
	models.KindCategory:   {"Matrícula", "Bolsa", "Cancelamento", "Intervenção Psicologia", "Agendamento Coordenação"},
	models.KindStatus:     workflow.DefaultStatuses,
}

// Seed cria usuários ausentes e preenche as tabelas de referência vazias.
// Pode rodar várias vezes.
func Seed(ctx context.Context, db *gorm.DB, users []SeedUser, log zerolog.Logger) error {
	for _, u := range users {
		if err := seedUser(ctx, db, u, log); err != nil {
			return err
		}
	}
	for _, kind := range models.RefKinds {
		if err := seedRefValues(ctx, db, kind, defaultRefValues[kind], log); err != nil {
			return err
		}
	}
	return nil
}

func seedUser(ctx context.Context, db *gorm.DB, su SeedUser, log zerolog.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Unscoped().Model(&models.User{}).
		Where("username = ?", su.Username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check seed user %s: %w", su.Username, err)
	}
	if count > 0 {
		// já existe
		return nil
	}

	hash, err := accounts.HashPassword(su.Password)
	if err != nil {
		return err
	}
	user := models.User{
		Username:     su.Username,
		Email:        su.Email,
		PasswordHash: hash,
		Profile:      su.Profile,
		IsAdmin:      su.IsAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create seed user %s: %w", su.Username, err)
	}

	log.Info().Str("username", su.Username).Str("profile", su.Profile).Msg("seed user created")
	return nil
}

func seedRefValues(ctx context.Context, db *gorm.DB, kind models.RefKind, names []string, log zerolog.Logger) error {
	table, err := refTable(kind)
	if err != nil {
		return err
	}
	var count int64
	if err := db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s: %w", table, err)
	}
	if count > 0 || len(names) == 0 {
		return nil
	}

	rows := make([]models.RefValue, 0, len(names))
	for _, n := range names {
		rows = append(rows, models.RefValue{Name: n})
	}
	if err := db.WithContext(ctx).Table(table).Create(&rows).Error; err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}

	log.Info().Str("table", table).Int("rows", len(rows)).Msg("default values created")
	return nil
}
