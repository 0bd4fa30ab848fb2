// Package server exposes the bills store as an HTTP API and serves the
// employee portal pages on top of the same store.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/routes"
	"github.com/billed-app/billed-portal/internal/storage"
	"github.com/billed-app/billed-portal/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxReceiptSize caps uploaded receipt files at 10 MiB.
const maxReceiptSize = 10 << 20

// API serves the bills store endpoints consumed by httpstore clients.
type API struct {
	store    store.Store
	receipts *storage.ReceiptStorage
	logger   *zap.Logger
}

// NewAPI creates the API handler set.
func NewAPI(st store.Store, receipts *storage.ReceiptStorage, logger *zap.Logger) *API {
	return &API{
		store:    st,
		receipts: receipts,
		logger:   logger,
	}
}

// Register mounts the API routes.
func (a *API) Register(r gin.IRouter) {
	r.POST("/bills", a.createBill)
	r.PUT("/bills/:id", a.updateBill)
	r.GET("/bills", a.listBills)
	r.GET(routes.Receipts+"/:name", a.serveReceipt)
}

// createBill handles the multipart creation request: an optional receipt
// file, the owner email, and optionally the bill fields as a JSON part.
func (a *API) createBill(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxReceiptSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart payload"})
		return
	}

	req := store.CreateRequest{
		Email: c.Request.FormValue("email"),
	}

	if billJSON := c.Request.FormValue("bill"); billJSON != "" {
		var bill entity.Bill
		if err := json.Unmarshal([]byte(billJSON), &bill); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill payload"})
			return
		}
		req.Bill = &bill
	}

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		content, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read receipt"})
			return
		}
		req.File = &store.FileSelection{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		}
	}

	resp, err := a.store.Bills().Create(c.Request.Context(), req)
	if err != nil {
		a.fail(c, "create bill", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// updateBill replaces the fields of an existing bill.
func (a *API) updateBill(c *gin.Context) {
	var bill entity.Bill
	if err := c.ShouldBindJSON(&bill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bill payload"})
		return
	}

	updated, err := a.store.Bills().Update(c.Request.Context(), c.Param("id"), &bill)
	if err != nil {
		a.fail(c, "update bill", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// listBills returns the stored bills, optionally filtered by owner email.
func (a *API) listBills(c *gin.Context) {
	bills, err := a.store.Bills().List(c.Request.Context())
	if err != nil {
		a.fail(c, "list bills", err)
		return
	}

	if email := c.Query("email"); email != "" {
		filtered := make([]entity.Bill, 0, len(bills))
		for _, bill := range bills {
			if bill.Email == email {
				filtered = append(filtered, bill)
			}
		}
		bills = filtered
	}

	if bills == nil {
		bills = []entity.Bill{}
	}
	c.JSON(http.StatusOK, bills)
}

// serveReceipt streams a stored receipt file.
func (a *API) serveReceipt(c *gin.Context) {
	name := c.Param("name")
	if !a.receipts.Exists(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
		return
	}

	path, err := a.receipts.Path(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt name"})
		return
	}
	c.File(path)
}

// fail translates store failures into HTTP responses.
func (a *API) fail(c *gin.Context, op string, err error) {
	var se *store.StatusError
	if errors.As(err, &se) {
		c.JSON(se.Code, gin.H{"error": se.Message})
		return
	}

	a.logger.Error(fmt.Sprintf("Failed to %s", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
