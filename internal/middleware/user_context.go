package middleware

import (
	"context"

	"agenda-escolar/internal/models"
	"agenda-escolar/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	SessionUserID  = "user_id"
	CurrentUserKey = "CurrentUser"
	CallerKey      = "Caller"
)

type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// InjectUser recarrega o usuário da sessão a cada requisição e guarda o Caller no contexto.
// Sessão apontando para usuário removido é limpa.
func InjectUser(users UserLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			user, err := users.GetUser(c.Request.Context(), uid)
			if err == nil {
				c.Set(CurrentUserKey, *user)
				c.Set(CallerKey, workflow.NewCaller(*user, log))
			} else {
				log.Warn().Err(err).Uint("user_id", uid).Msg("session user not loaded")
				sess.Clear()
				_ = sess.Save()
			}
		}

		c.Next()
	}
}
