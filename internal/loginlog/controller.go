package loginlog

import (
	"net/http"

	"cnadmin/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type LoginLogController struct {
	service LoginLogServiceInterface
}

func NewLoginLogController(service LoginLogServiceInterface) *LoginLogController {
	return &LoginLogController{service: service}
}

// Page lists stored login logs, newest first
func (lc *LoginLogController) Page(c *gin.Context) {
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": response.ValidationMessage(err)})
		return
	}

	logs, total, err := lc.service.Page(query)
	if err != nil {
		logrus.WithError(err).Error("Failed to page login logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get login logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"list":  logs,
		"total": total,
	})
}
