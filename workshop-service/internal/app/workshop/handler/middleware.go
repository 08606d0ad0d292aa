package handler

import (
	"github.com/gin-gonic/gin"

	"odilusta/workshop-service/internal/app/workshop/session"
)

const (
	sessionHeader     = "X-Session-ID"
	sessionContextKey = "session"
)

// SessionMiddleware привязывает запрос к сессии по заголовку X-Session-ID
// Неизвестный или отсутствующий идентификатор получает свежую сессию;
// ее идентификатор возвращается в том же заголовке ответа
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session

		if id := c.GetHeader(sessionHeader); id != "" {
			if existing, ok := manager.Get(id); ok {
				sess = existing
			}
		}
		if sess == nil {
			sess = manager.Create()
		}

		c.Header(sessionHeader, sess.ID)
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// sessionFromContext достает сессию, положенную SessionMiddleware
func sessionFromContext(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}
