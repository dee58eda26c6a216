// Package accounts cuida de login e do cadastro de usuários.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agenda-escolar/internal/apperr"
	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const auditEntity = "user"

var ErrInvalidCredentials = errors.New("invalid username or password")

type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UsernameTaken/EmailTaken ignoram o usuário excludeID (0 = nenhum).
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	RecordAudit(ctx context.Context, entry *models.AuditLog) error
}

// UserInput: formulário de usuário. Na edição, senha vazia mantém a atual.
type UserInput struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Profile  string `form:"perfil"`
	Setor    string `form:"setor"`
	IsAdmin  bool   `form:"is_admin"`
}

func (in UserInput) trimmed() UserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)
	in.Profile = strings.TrimSpace(in.Profile)
	in.Setor = strings.TrimSpace(in.Setor)
	return in
}

type Service struct {
	store Store
	log   zerolog.Logger
	cost  int
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log, cost: bcrypt.DefaultCost}
}

// HashPassword: bcrypt com o custo padrão.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate confere usuário e senha. Usuário inexistente e senha errada dão o mesmo erro.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, c workflow.Caller) ([]models.User, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("list users: %w", apperr.ErrPermission)
	}
	return s.store.ListUsers(ctx)
}

func (s *Service) Get(ctx context.Context, c workflow.Caller, id uint) (*models.User, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("get user: %w", apperr.ErrPermission)
	}
	return s.store.GetUser(ctx, id)
}

// Create: usuário, e-mail e senha obrigatórios; perfil "admin" liga is_admin.
func (s *Service) Create(ctx context.Context, c workflow.Caller, in UserInput) (*models.User, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("create user: %w", apperr.ErrPermission)
	}
	in = in.trimmed()
	switch {
	case in.Username == "":
		return nil, apperr.Invalid("username", "Nome de usuário é obrigatório.")
	case in.Email == "":
		return nil, apperr.Invalid("email", "E-mail é obrigatório.")
	case in.Password == "":
		return nil, apperr.Invalid("password", "Senha é obrigatória.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Profile:      profileOrDefault(in.Profile),
		Setor:        in.Setor,
		IsAdmin:      in.IsAdmin || strings.EqualFold(in.Profile, string(models.RoleAdmin)),
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := checkUnique(ctx, tx, u.Username, u.Email, 0); err != nil {
			return err
		}
		if err := tx.CreateUser(ctx, &u); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, audit(c, u.ID, "create",
			fmt.Sprintf("Usuário criado: %s (perfil %s)", u.Username, u.Profile)))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", u.Username).Str("by", c.Username).Msg("user created")
	return &u, nil
}

// Edit: altera usuário, e-mail, perfil, setor e flag de admin; senha só se enviada.
func (s *Service) Edit(ctx context.Context, c workflow.Caller, id uint, in UserInput) (*models.User, error) {
	if !c.IsAdmin() {
		return nil, fmt.Errorf("edit user: %w", apperr.ErrPermission)
	}
	in = in.trimmed()
	switch {
	case in.Username == "":
		return nil, apperr.Invalid("username", "Nome de usuário é obrigatório.")
	case in.Email == "":
		return nil, apperr.Invalid("email", "E-mail é obrigatório.")
	}

	var hash string
	if in.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(b)
	}

	var saved models.User
	err := s.store.InTx(ctx, func(tx Store) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if err := checkUnique(ctx, tx, in.Username, in.Email, id); err != nil {
			return err
		}

		u.Username = in.Username
		u.Email = in.Email
		u.Setor = in.Setor
		u.IsAdmin = in.IsAdmin
		if in.Profile != "" {
			u.Profile = in.Profile
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		saved = *u

		details := fmt.Sprintf("Usuário atualizado: %s (perfil %s, admin %t)", u.Username, u.Profile, u.IsAdmin)
		if hash != "" {
			details += ", senha alterada"
		}
		return tx.RecordAudit(ctx, audit(c, id, "update", details))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", id).Str("by", c.Username).Msg("user updated")
	return &saved, nil
}

// Delete: ninguém exclui a si mesmo.
func (s *Service) Delete(ctx context.Context, c workflow.Caller, id uint) error {
	if !c.IsAdmin() {
		return fmt.Errorf("delete user: %w", apperr.ErrPermission)
	}
	if id == c.UserID {
		return fmt.Errorf("delete user %d: %w", id, apperr.ErrSelfDelete)
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		u, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteUser(ctx, id); err != nil {
			return err
		}
		return tx.RecordAudit(ctx, audit(c, id, "delete", "Usuário excluído: "+u.Username))
	})
	if err != nil {
		return err
	}
	s.log.Info().Uint("user_id", id).Str("by", c.Username).Msg("user deleted")
	return nil
}

// FinanceEmails: destinatários do aviso de repasse.
func (s *Service) FinanceEmails(ctx context.Context) ([]string, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, u := range users {
		if u.Role() == models.RoleFinance && u.Email != "" {
			out = append(out, u.Email)
		}
	}
	return out, nil
}

func checkUnique(ctx context.Context, tx Store, username, email string, excludeID uint) error {
	taken, err := tx.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("username %q: %w", username, apperr.ErrDuplicate)
	}
	taken, err = tx.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("email %q: %w", email, apperr.ErrDuplicate)
	}
	return nil
}

func profileOrDefault(p string) string {
	if p == "" {
		return "user"
	}
	return strings.ToLower(p)
}

func audit(c workflow.Caller, id uint, action, details string) *models.AuditLog {
	return &models.AuditLog{
		UserID:   c.UserID,
		Username: c.Username,
		Entity:   auditEntity,
		EntityID: id,
		Action:   action,
		Details:  details,
	}
}
