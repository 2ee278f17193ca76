package online

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"cnadmin/internal/observability"
	"cnadmin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OnlineController struct {
	sessions *session.Helper
}

func NewOnlineController(sessions *session.Helper) *OnlineController {
	return &OnlineController{sessions: sessions}
}

// List returns live sessions, most recent login first. ?username filters by substring.
func (oc *OnlineController) List(c *gin.Context) {
	users, err := oc.sessions.OnlineUsers(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list online users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get online users"})
		return
	}

	if name := strings.TrimSpace(c.Query("username")); name != "" {
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(u.Username, name) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].LoginTime.After(users[j].LoginTime)
	})

	if users == nil {
		users = []*session.LoginUser{}
	}
	c.JSON(http.StatusOK, gin.H{
		"list":  users,
		"total": len(users),
	})
}

// Kickout ends another user's session
func (oc *OnlineController) Kickout(c *gin.Context) {
	token := c.Param("token")
	if token == oc.sessions.Token(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot kick out the current session"})
		return
	}

	if err := oc.sessions.Kickout(c.Request.Context(), token); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		logrus.WithError(err).Error("Failed to kick out session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to kick out session"})
		return
	}

	observability.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Session kicked out"})
}
