// Package logctx carries per-request logging metadata on the gin context.
package logctx

import (
	"time"

	"github.com/gin-gonic/gin"
)

const contextKey = "LOG_CONTEXT"

type LogContext struct {
	RequestID  string
	CreateTime time.Time
}

func Set(c *gin.Context, lc *LogContext) {
	c.Set(contextKey, lc)
}

// Get returns the context stored by the request logging middleware, if any.
func Get(c *gin.Context) (*LogContext, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	lc, ok := v.(*LogContext)
	if !ok || lc == nil {
		return nil, false
	}
	return lc, true
}
