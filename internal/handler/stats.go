package handler

import (
	"net/http"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the read-side aggregations.
type StatsHandler struct {
	Store *ledger.Store
}

func NewStatsHandler(store *ledger.Store) *StatsHandler {
	return &StatsHandler{Store: store}
}

// Balance returns earnings, spending and net balance over ?range=.
// An empty range uses the default from settings.
func (h *StatsHandler) Balance(c *gin.Context) {
	data, err := h.Store.BalanceData(c.Request.Context(), c.Query("range"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"balance": data,
	})
}

// Categories returns per-category spending totals, largest first.
func (h *StatsHandler) Categories(c *gin.Context) {
	data, err := h.Store.CategorySpending(c.Request.Context(), c.Query("range"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": data,
	})
}
