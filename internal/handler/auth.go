package handler

import (
	"net/http"
	"time"

	"github.com/1kta4/finances/internal/config"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler mints API tokens. Real account management lives on the
// backend; this endpoint only exchanges a known user identifier for a
// signed token so the device can talk to the protected API.
type AuthHandler struct {
	JWT config.JWTConfig
}

func NewAuthHandler(jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{JWT: jwt}
}

type tokenReq struct {
	UserID string `json:"user_id" binding:"required"`
}

// Token exchanges a user id for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "user_id required")
		return
	}

	ttl := time.Duration(h.JWT.ExpireHours) * time.Hour
	token, err := util.GenerateToken(h.JWT.Secret, h.JWT.Issuer, req.UserID, ttl)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "token generation failed")
		return
	}

	util.Success(c, util.Response{
		"token": token,
	})
}
