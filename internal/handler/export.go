package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/models"
	"github.com/1kta4/finances/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler exports the transaction history as CSV or XLSX.
type ExportHandler struct {
	Store *ledger.Store
}

func NewExportHandler(store *ledger.Store) *ExportHandler {
	return &ExportHandler{Store: store}
}

var exportHeader = []string{"Type", "Category", "Item", "Amount", "Method", "Description", "Date"}

func exportRow(t *models.Transaction) []string {
	category := ""
	if t.Category != nil {
		category = t.Category.Name
	}
	return []string{
		t.Type,
		category,
		t.ItemName,
		t.Amount.StringFixed(2),
		t.Method,
		t.Description,
		t.Date.Format("2006-01-02"),
	}
}

// CSV streams the transactions as a CSV download.
func (h *ExportHandler) CSV(c *gin.Context) {
	txs, err := h.Store.ListTransactions(c.Request.Context(), ledger.TransactionFilter{})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeader)
	for i := range txs {
		writer.Write(exportRow(&txs[i]))
	}
}

// XLSX writes the transactions as an Excel workbook.
func (h *ExportHandler) XLSX(c *gin.Context) {
	txs, err := h.Store.ListTransactions(c.Request.Context(), ledger.TransactionFilter{})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]interface{}, len(exportHeader))
	for i, v := range exportHeader {
		header[i] = v
	}
	f.SetSheetRow(sheet, "A1", &header)

	for i := range txs {
		row := exportRow(&txs[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &cells)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
