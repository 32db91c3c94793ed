package handler

import (
	"errors"
	"net/http"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/models"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalHandler serves the savings goal endpoints.
type GoalHandler struct {
	Store *ledger.Store
}

func NewGoalHandler(store *ledger.Store) *GoalHandler {
	return &GoalHandler{Store: store}
}

type createGoalReq struct {
	Title         string `json:"title" binding:"required,max=128"`
	TargetAmount  string `json:"target_amount" binding:"required"`
	CurrentAmount string `json:"current_amount"`
	Deadline      string `json:"deadline"`
}

type updateGoalReq struct {
	Title         *string `json:"title" binding:"omitempty,max=128"`
	TargetAmount  *string `json:"target_amount"`
	CurrentAmount *string `json:"current_amount"`
	Deadline      *string `json:"deadline"`
}

// List returns all goals.
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.Store.ListGoals(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": goals,
	})
}

// Create adds a savings goal.
func (h *GoalHandler) Create(c *gin.Context) {
	var req createGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	target, err := util.ParseAmount(req.TargetAmount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid target amount")
		return
	}

	current := decimal.Zero
	if req.CurrentAmount != "" {
		if current, err = decimal.NewFromString(req.CurrentAmount); err != nil || current.IsNegative() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid current amount")
			return
		}
	}

	g := models.Goal{
		Title:         req.Title,
		TargetAmount:  target,
		CurrentAmount: current,
	}
	if req.Deadline != "" {
		deadline, err := util.ParseDate(req.Deadline)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid deadline")
			return
		}
		g.Deadline = &deadline
	}

	if err := h.Store.AddGoal(c.Request.Context(), &g); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{
		"goal": g,
	})
}

// Update applies a partial update to one goal.
func (h *GoalHandler) Update(c *gin.Context) {
	var req updateGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	patch := ledger.GoalPatch{Title: req.Title}
	if req.TargetAmount != nil {
		target, err := util.ParseAmount(*req.TargetAmount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid target amount")
			return
		}
		patch.TargetAmount = &target
	}
	if req.CurrentAmount != nil {
		current, err := decimal.NewFromString(*req.CurrentAmount)
		if err != nil || current.IsNegative() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid current amount")
			return
		}
		patch.CurrentAmount = &current
	}
	if req.Deadline != nil {
		deadline, err := util.ParseDate(*req.Deadline)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid deadline")
			return
		}
		patch.Deadline = &deadline
	}

	err := h.Store.UpdateGoal(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
			return
		}
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{
		"message": "updated",
	})
}

// Delete removes one goal.
func (h *GoalHandler) Delete(c *gin.Context) {
	err := h.Store.DeleteGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "goal not found")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed")
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}
