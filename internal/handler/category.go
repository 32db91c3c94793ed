package handler

import (
	"errors"
	"net/http"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the category endpoints.
type CategoryHandler struct {
	Store *ledger.Store
}

func NewCategoryHandler(store *ledger.Store) *CategoryHandler {
	return &CategoryHandler{Store: store}
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
	Type string `json:"type" binding:"required,oneof=spending earning"`
}

type renameCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

// List returns categories, optionally filtered with ?type=spending|earning.
func (h *CategoryHandler) List(c *gin.Context) {
	typ := c.Query("type")

	cats, err := h.Store.ListCategories(c.Request.Context(), typ)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{
		"items": cats,
	})
}

// Create adds a custom category.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	cat, err := h.Store.AddCategory(c.Request.Context(), req.Name, req.Type)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	util.Success(c, util.Response{
		"category": cat,
	})
}

// Rename changes a custom category's name.
func (h *CategoryHandler) Rename(c *gin.Context) {
	var req renameCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	err := h.Store.RenameCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		writeCategoryError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "renamed",
	})
}

// Delete removes a custom category that is not in use.
func (h *CategoryHandler) Delete(c *gin.Context) {
	err := h.Store.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeCategoryError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "deleted",
	})
}

func writeCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrProtectedCategory):
		util.Error(c, http.StatusForbidden, util.CodeProtected, "default categories cannot be modified")
	case errors.Is(err, ledger.ErrCategoryInUse):
		util.Error(c, http.StatusConflict, util.CodeConflict, "category is still in use")
	case errors.Is(err, ledger.ErrCategoryNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed")
	}
}
