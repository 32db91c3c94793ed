package handler

import (
	"net/http"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the settings endpoints and the device data reset.
type SettingsHandler struct {
	Store *ledger.Store
}

func NewSettingsHandler(store *ledger.Store) *SettingsHandler {
	return &SettingsHandler{Store: store}
}

type updateSettingsReq struct {
	Currency     *string `json:"currency" binding:"omitempty,max=8"`
	ThemeMode    *string `json:"theme_mode" binding:"omitempty,max=16"`
	ThemeColor   *string `json:"theme_color" binding:"omitempty,max=16"`
	DefaultRange *string `json:"default_range" binding:"omitempty,oneof=week month year all"`
}

// Get returns the settings row, creating it on first access.
func (h *SettingsHandler) Get(c *gin.Context) {
	st, err := h.Store.GetSettings(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"settings": st,
	})
}

// Update applies a partial settings update.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req updateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	st, err := h.Store.UpdateSettings(c.Request.Context(), ledger.SettingsPatch{
		Currency:     req.Currency,
		ThemeMode:    req.ThemeMode,
		ThemeColor:   req.ThemeColor,
		DefaultRange: req.DefaultRange,
	})
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{
		"settings": st,
	})
}

// Reset wipes the device data: all transactions and goals, custom
// categories removed, defaults re-seeded.
func (h *SettingsHandler) Reset(c *gin.Context) {
	if err := h.Store.ClearAll(c.Request.Context()); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "reset failed")
		return
	}

	util.Success(c, util.Response{
		"message": "device data cleared",
	})
}
