package handler

import (
	"context"
	"errors"
	"net/http"

	"pm-go/internal/config"
	"pm-go/internal/dto"
	"pm-go/internal/service"
	"pm-go/internal/utils"
	"pm-go/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoginLimiter throttles repeated failed logins per client
type LoginLimiter interface {
	Allow(ctx context.Context, key string) error
	Hit(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string)
}

// AuthHandler registration, login and logout
type AuthHandler struct {
	authService *service.AuthService
	limiter     LoginLimiter
	session     config.SessionConfig
}

// NewAuthHandler creates an AuthHandler; limiter may be nil
func NewAuthHandler(authService *service.AuthService, limiter LoginLimiter, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
		session:     session,
	}
}

// Register creates an account
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "account"
// @Success 201 {object} dto.RegisterResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, resp)
}

// Login checks credentials and sets the session cookie
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "credentials"
// @Success 200 {object} dto.LoginResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	key := c.ClientIP()
	if h.limiter != nil {
		err := h.limiter.Allow(ctx, key)
		if errors.Is(err, redis_limiter.ErrLimitExceeded) {
			utils.TooManyRequests(c, "Too many login attempts, try again later")
			return
		}
		if err != nil {
			logrus.WithError(err).Warn("login limiter unavailable")
		}
	}

	resp, token, err := h.authService.Login(ctx, &req)
	if err != nil {
		var ae *service.AuthenticationError
		if h.limiter != nil && errors.As(err, &ae) {
			if _, hitErr := h.limiter.Hit(ctx, key); hitErr != nil {
				logrus.WithError(hitErr).Warn("count failed login")
			}
		}
		respondError(c, err)
		return
	}
	if h.limiter != nil {
		h.limiter.Reset(ctx, key)
	}

	h.setCookie(c, token, int(h.session.GetTTL().Seconds()))
	utils.OK(c, resp)
}

// Logout destroys the session and expires the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.session.CookieName)
	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, value, maxAge, "/", "", h.session.Secure, true)
}
