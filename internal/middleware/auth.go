package middleware

import (
	"net/http"

	"agenda-escolar/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CallerFrom(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin: demais papéis voltam ao painel com aviso.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !caller.IsAdmin() {
			sess := sessions.Default(c)
			sess.AddFlash("danger|Acesso negado.")
			_ = sess.Save()
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom devolve o Caller montado pelo InjectUser.
func CallerFrom(c *gin.Context) (workflow.Caller, bool) {
	v, ok := c.Get(CallerKey)
	if !ok {
		return workflow.Caller{}, false
	}
	caller, ok := v.(workflow.Caller)
	return caller, ok
}
