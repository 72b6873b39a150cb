package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seating-chart/internal/config"
	"github.com/iliyamo/seating-chart/internal/utils"
)

// plannerSubject is the sub claim of planner tokens.  There is a single
// shared planner passphrase, so there is no per-user identity.
const plannerSubject = "planner"

// AuthHandler issues planner access tokens.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type loginReq struct {
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	Role    string    `json:"role"`
}

// Login exchanges the planner passphrase for an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "password required")
	}
	if !utils.VerifyPassword(h.Cfg.PlannerPasswordHash, req.Password) {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	at, err := utils.NewAccessToken(h.Cfg.JWTSecret, plannerSubject, utils.RolePlanner, h.Cfg.AccessTTLMin)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "token issue failed")
	}
	return c.JSON(http.StatusOK, tokenPart{Token: at.Token, Expires: at.Exp, Role: utils.RolePlanner})
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}
