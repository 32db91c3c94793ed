package handler

import (
	"errors"
	"net/http"

	"github.com/1kta4/finances/internal/syncer"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// SyncHandler serves the backup push/pull endpoints. Reconciler may be nil
// when no remote peer is configured.
type SyncHandler struct {
	Reconciler *syncer.Reconciler
}

func NewSyncHandler(rec *syncer.Reconciler) *SyncHandler {
	return &SyncHandler{Reconciler: rec}
}

// Push replaces the remote copy of the ledger with the local state.
func (h *SyncHandler) Push(c *gin.Context) {
	if h.Reconciler == nil {
		util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "sync is not configured")
		return
	}

	if err := h.Reconciler.Push(c.Request.Context()); err != nil {
		writeSyncError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "backup complete",
	})
}

// Pull replaces the local ledger with the remote copy. Destructive.
func (h *SyncHandler) Pull(c *gin.Context) {
	if h.Reconciler == nil {
		util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "sync is not configured")
		return
	}

	if err := h.Reconciler.Pull(c.Request.Context()); err != nil {
		writeSyncError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "restore complete",
	})
}

func writeSyncError(c *gin.Context, err error) {
	if errors.Is(err, syncer.ErrNotAuthenticated) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return
	}
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
}
