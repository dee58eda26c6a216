package workflow

import (
	"agenda-escolar/internal/models"

	"github.com/rs/zerolog"
)

// Caller: quem está chamando a operação. Sempre passado explicitamente pelo handler.
type Caller struct {
	UserID   uint
	Username string
	Role     models.Role
}

// NewCaller monta o Caller a partir do usuário autenticado. Perfis fora do conjunto
// conhecido viram coordenação, mas ficam registrados no log.
func NewCaller(u models.User, log zerolog.Logger) Caller {
	if !u.IsAdmin {
		if _, ok := models.ParseProfile(u.Profile); !ok {
			log.Warn().
				Uint("user_id", u.ID).
				Str("username", u.Username).
				Str("profile", u.Profile).
				Msg("unknown profile, treating as coordination")
		}
	}
	return Caller{UserID: u.ID, Username: u.Username, Role: u.Role()}
}

func (c Caller) IsAdmin() bool        { return c.Role == models.RoleAdmin }
func (c Caller) IsFinance() bool      { return c.Role == models.RoleFinance }
func (c Caller) IsCoordination() bool { return !c.IsAdmin() && !c.IsFinance() }

// MayUseStatus: o papel pode gravar esse status? Admin pode qualquer status cadastrado.
func (c Caller) MayUseStatus(status string) bool {
	switch {
	case c.IsAdmin():
		return true
	case c.IsFinance():
		return financeStatuses.has(status)
	default:
		return coordinationStatuses.has(status)
	}
}

// AllowedStatuses filtra os status cadastrados pelos que o papel pode gravar.
func (c Caller) AllowedStatuses(all []string) []string {
	out := make([]string, 0, len(all))
	for _, s := range all {
		if c.MayUseStatus(s) {
			out = append(out, s)
		}
	}
	return out
}
