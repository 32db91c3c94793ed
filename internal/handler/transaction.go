package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/models"
	"github.com/1kta4/finances/internal/subscription"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves the transaction endpoints.
type TransactionHandler struct {
	Store  *ledger.Store
	Engine *subscription.Engine
}

func NewTransactionHandler(store *ledger.Store, engine *subscription.Engine) *TransactionHandler {
	return &TransactionHandler{Store: store, Engine: engine}
}

// ---------- request structures ----------

type createTransactionReq struct {
	CategoryID     string `json:"category_id" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=spending earning"`
	Amount         string `json:"amount" binding:"required"`
	ItemName       string `json:"item_name" binding:"max=128"`
	Description    string `json:"description" binding:"max=255"`
	Method         string `json:"method" binding:"omitempty,oneof=cash card"`
	Date           string `json:"date"`
	IsSubscription bool   `json:"is_subscription"`
	Interval       string `json:"interval" binding:"omitempty,oneof=2weeks month year custom"`
	CustomMonths   *int   `json:"custom_months"`
}

type updateTransactionReq struct {
	CategoryID   *string `json:"category_id"`
	Type         *string `json:"type" binding:"omitempty,oneof=spending earning"`
	Amount       *string `json:"amount"`
	ItemName     *string `json:"item_name" binding:"omitempty,max=128"`
	Description  *string `json:"description" binding:"omitempty,max=255"`
	Method       *string `json:"method" binding:"omitempty,oneof=cash card"`
	Date         *string `json:"date"`
	Interval     *string `json:"interval" binding:"omitempty,oneof=2weeks month year custom"`
	CustomMonths *int    `json:"custom_months" binding:"omitempty,min=1"`
}

// Create records a transaction. For a subscription template the first
// next-occurrence date is computed from the transaction date and interval.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	amount, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid amount")
		return
	}

	date := time.Now()
	if req.Date != "" {
		if date, err = util.ParseDate(req.Date); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
			return
		}
	}

	t := models.Transaction{
		CategoryID:     req.CategoryID,
		Type:           req.Type,
		Amount:         amount,
		ItemName:       req.ItemName,
		Description:    req.Description,
		Method:         req.Method,
		Date:           date,
		IsSubscription: models.Flag(req.IsSubscription),
		Interval:       req.Interval,
		CustomMonths:   req.CustomMonths,
	}

	if req.IsSubscription {
		months := 0
		if req.CustomMonths != nil {
			months = *req.CustomMonths
		}
		next, err := subscription.NextOccurrence(date, req.Interval, months)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		t.NextOccurrence = &next
	}

	if err := h.Store.AddTransaction(c.Request.Context(), &t); err != nil {
		if errors.Is(err, ledger.ErrCategoryNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
			return
		}
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{
		"transaction": t,
	})
}

// List returns transactions filtered by the query parameters type,
// category_id, from, to and subscription.
func (h *TransactionHandler) List(c *gin.Context) {
	var f ledger.TransactionFilter
	f.Type = c.Query("type")
	f.CategoryID = c.Query("category_id")

	var err error
	if v := c.Query("from"); v != "" {
		if f.From, err = util.ParseDate(v); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid from date")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if f.To, err = util.ParseDate(v); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid to date")
			return
		}
	}
	if v := c.Query("subscription"); v != "" {
		sub := v == "true" || v == "1"
		f.Subscription = &sub
	}

	txs, err := h.Store.ListTransactions(c.Request.Context(), f)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": txs,
	})
}

// Update applies a partial update to one transaction.
func (h *TransactionHandler) Update(c *gin.Context) {
	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	patch := ledger.TransactionPatch{
		CategoryID:   req.CategoryID,
		Type:         req.Type,
		ItemName:     req.ItemName,
		Description:  req.Description,
		Method:       req.Method,
		Interval:     req.Interval,
		CustomMonths: req.CustomMonths,
	}
	if req.Amount != nil {
		amount, err := util.ParseAmount(*req.Amount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid amount")
			return
		}
		patch.Amount = &amount
	}
	if req.Date != nil {
		date, err := util.ParseDate(*req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
			return
		}
		patch.Date = &date
	}

	err := h.Store.UpdateTransaction(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeTransactionError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "updated",
	})
}

// Delete removes one transaction. Deleting a subscription template
// cascades to all of its generated occurrences.
func (h *TransactionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	t, err := h.Store.GetTransaction(ctx, id)
	if err != nil {
		writeTransactionError(c, err)
		return
	}

	if t.IsTemplate() {
		err = h.Engine.DeleteSubscription(ctx, id)
	} else {
		err = h.Store.DeleteTransaction(ctx, id)
	}
	if err != nil {
		writeTransactionError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}

func writeTransactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
	case errors.Is(err, ledger.ErrCategoryNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	}
}
