package user

import (
	"errors"
	"net/http"
	"time"

	"cnadmin/internal/enums"
	"cnadmin/internal/logctx"
	"cnadmin/internal/loginlog"
	"cnadmin/internal/observability"
	"cnadmin/internal/response"
	"cnadmin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService UserServiceInterface
	sessions    *session.Helper
	loginLogs   loginlog.LoginLogServiceInterface
}

func NewUserController(userService UserServiceInterface, sessions *session.Helper, loginLogs loginlog.LoginLogServiceInterface) *UserController {
	return &UserController{
		userService: userService,
		sessions:    sessions,
		loginLogs:   loginLogs,
	}
}

// Login checks credentials, opens a session and returns its token
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": response.ValidationMessage(err)})
		return
	}

	user, err := uc.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		var userID int64
		if user != nil {
			userID = user.UserID
		}
		uc.recordFailure(c, userID, req.Username, err)

		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		case errors.Is(err, ErrUserDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "User is disabled"})
		default:
			logrus.WithError(err).WithField("username", req.Username).Error("Login lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		}
		return
	}

	loginUser := &session.LoginUser{
		UserID:   user.UserID,
		Username: user.Username,
		Nickname: user.Nickname,
	}
	if err := uc.sessions.Login(c, loginUser); err != nil {
		logrus.WithError(err).WithField("user_id", user.UserID).Error("Failed to open session")
		uc.recordFailure(c, user.UserID, user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	observability.LoginAttempt("success")
	uc.loginLogs.Record(c.Request.Context(), &loginlog.LoginLog{
		UserID:      loginUser.UserID,
		Username:    loginUser.Username,
		ClientIP:    loginUser.ClientIP,
		Location:    loginUser.Location,
		Browser:     loginUser.Browser,
		Status:      enums.StatusSuccess,
		Description: "Login succeeded",
		CreateTime:  loginUser.LoginTime,
	})

	c.JSON(http.StatusOK, gin.H{"token": loginUser.Token})
}

// Info returns the current login user. Sessions of removed or disabled users
// are ended; a nickname changed since login is written back to the session.
func (uc *UserController) Info(c *gin.Context) {
	loginUser := uc.sessions.LoginUser(c)
	if loginUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	user, err := uc.userService.GetUserByID(loginUser.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			uc.endSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			return
		}
		logrus.WithError(err).Error("Failed to get user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}
	if user.Status == enums.StatusDisable {
		uc.endSession(c)
		c.JSON(http.StatusForbidden, gin.H{"error": "User is disabled"})
		return
	}

	if user.Nickname != loginUser.Nickname {
		updated := *loginUser
		updated.Nickname = user.Nickname
		if err := uc.sessions.UpdateLoginUser(c, &updated); err != nil {
			if errors.Is(err, session.ErrNotLoggedIn) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
				return
			}
			logrus.WithError(err).WithField("user_id", user.UserID).Warn("Failed to refresh login user")
		}
		loginUser = &updated
	}

	c.JSON(http.StatusOK, loginUser)
}

func (uc *UserController) endSession(c *gin.Context) {
	if err := uc.sessions.Logout(c); err != nil && !errors.Is(err, session.ErrNotLoggedIn) {
		logrus.WithError(err).Warn("Failed to end session")
		return
	}
	observability.Logout()
}

func (uc *UserController) Logout(c *gin.Context) {
	if err := uc.sessions.Logout(c); err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}
		logrus.WithError(err).Error("Failed to logout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	observability.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (uc *UserController) recordFailure(c *gin.Context, userID int64, username string, cause error) {
	observability.LoginAttempt("failure")

	client := uc.sessions.ClientInfo(c)
	createTime := time.Now()
	if lc, ok := logctx.Get(c); ok && !lc.CreateTime.IsZero() {
		createTime = lc.CreateTime
	}

	description := "Login failed"
	switch {
	case errors.Is(cause, ErrInvalidCredentials):
		description = "Invalid username or password"
	case errors.Is(cause, ErrUserDisabled):
		description = "User is disabled"
	}

	uc.loginLogs.Record(c.Request.Context(), &loginlog.LoginLog{
		UserID:      userID,
		Username:    username,
		ClientIP:    client.IP,
		Location:    client.Location,
		Browser:     client.Browser,
		Status:      enums.StatusFailure,
		Description: description,
		CreateTime:  createTime,
	})
}
