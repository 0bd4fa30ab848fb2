// Package newbill owns the draft state of one bill being composed and the
// submission protocol against the store.
package newbill

import (
	"context"
	"strconv"
	"sync"

	"github.com/billed-app/billed-portal/internal/draft"
	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/routes"
	"github.com/billed-app/billed-portal/internal/session"
	"github.com/billed-app/billed-portal/internal/store"
	"go.uber.org/zap"
)

// defaultPct is used when the pct field is absent or does not parse.
const defaultPct = 20

// FileInput models the file field of the form: the displayed value and the
// selected file. Rejecting a selection clears the displayed value.
type FileInput struct {
	Value string
	File  store.FileSelection
}

// BillForm is the typed form model read at submit time. All values arrive as
// the raw field strings; the controller owns the numeric parsing.
type BillForm struct {
	Type       string
	Name       string
	Amount     string
	Date       string
	VAT        string
	Pct        string
	Commentary string
}

// SubmitEvent is the submit interaction: PreventDefault suppresses the form's
// default navigation, Form carries the field values.
type SubmitEvent struct {
	PreventDefault func()
	Form           BillForm
}

// Controller manages one in-progress bill submission. It is exclusively
// owned by one user interaction and discarded on navigation away.
type Controller struct {
	store    store.Store
	navigate routes.NavigateFunc
	user     session.User
	logger   *zap.Logger

	machine  *draft.Machine
	billID   string
	fileURL  *string
	fileName *string

	pending sync.WaitGroup
}

// NewController creates a form controller. store may be nil (static form,
// nothing is persisted).
func NewController(st store.Store, navigate routes.NavigateFunc, user session.User, logger *zap.Logger) *Controller {
	return &Controller{
		store:    st,
		navigate: navigate,
		user:     user,
		logger:   logger,
		machine:  draft.NewMachine(),
	}
}

// State returns the current draft state.
func (c *Controller) State() draft.State {
	return c.machine.State()
}

// BillID returns the store key assigned by the upload step, empty until a
// receipt upload succeeded.
func (c *Controller) BillID() string { return c.billID }

// FileURL returns the stored receipt URL, nil until an upload succeeded.
func (c *Controller) FileURL() *string { return c.fileURL }

// FileName returns the uploaded receipt's original name, nil until an upload
// succeeded.
func (c *Controller) FileName() *string { return c.fileName }

// RestoreUpload rehydrates a draft whose receipt was already uploaded in an
// earlier interaction (the portal's upload step, or an edit flow). The file
// URL and name are restored together or not at all.
func (c *Controller) RestoreUpload(billID string, fileURL, fileName string) {
	c.billID = billID
	if fileURL != "" && fileName != "" {
		c.fileURL = &fileURL
		c.fileName = &fileName
	}
}

// HandleChangeFile validates the selected receipt. A file whose extension is
// not jpg, jpeg or png (case-insensitive) is rejected: the input value is
// cleared, no store call is made and no error escapes. An accepted file is
// uploaded to the store with the owner email; on success the returned file
// URL and the original file name are recorded together. Upload failures are
// logged and swallowed, leaving the draft unfilled so the user can retry.
func (c *Controller) HandleChangeFile(ctx context.Context, input *FileInput) {
	if !entity.AllowedReceiptFile(input.File.Name) {
		if err := c.machine.Fire(draft.TriggerSelectInvalidFile); err != nil {
			c.logger.Warn("File selection after submission ignored", zap.Error(err))
			return
		}
		input.Value = ""
		c.fileURL = nil
		c.fileName = nil
		c.logger.Debug("Receipt rejected", zap.String("file_name", input.File.Name))
		return
	}

	if err := c.machine.Fire(draft.TriggerSelectValidFile); err != nil {
		c.logger.Warn("File selection after submission ignored", zap.Error(err))
		return
	}

	if c.store == nil {
		return
	}

	resp, err := c.store.Bills().Create(ctx, store.CreateRequest{
		File:  &input.File,
		Email: c.user.Email,
	})
	if err != nil {
		c.logger.Error("Receipt upload failed",
			zap.String("file_name", input.File.Name),
			zap.Error(err))
		return
	}

	fileName := input.File.Name
	c.billID = resp.Key
	c.fileURL = &resp.FileURL
	c.fileName = &fileName
	c.logger.Debug("Receipt uploaded",
		zap.String("bill_id", c.billID),
		zap.String("file_url", resp.FileURL))
}

// HandleSubmit assembles the bill candidate and hands it to the store. The
// persistence call is fire-and-forget: navigation to the bills list happens
// synchronously after issuing it, and a failure is only logged. This
// optimistic behavior is the submission contract, not an oversight.
func (c *Controller) HandleSubmit(ctx context.Context, ev *SubmitEvent) {
	ev.PreventDefault()

	bill := c.buildCandidate(ev.Form)

	if err := c.machine.Fire(draft.TriggerSubmit); err != nil {
		c.logger.Warn("Duplicate submission ignored", zap.Error(err))
		return
	}

	if c.store != nil {
		billID := c.billID
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			// Navigation must not cancel the in-flight persistence call.
			bgCtx := context.WithoutCancel(ctx)

			var err error
			if billID != "" {
				_, err = c.store.Bills().Update(bgCtx, billID, &bill)
			} else {
				_, err = c.store.Bills().Create(bgCtx, store.CreateRequest{
					Email: c.user.Email,
					Bill:  &bill,
				})
			}
			if err != nil {
				c.logger.Error("Bill submission failed",
					zap.String("bill_id", billID),
					zap.Error(err))
			}
		}()
	}

	c.navigate(routes.Bills)
}

// buildCandidate reads the form fields into a bill record. The email comes
// from the session, never from the form.
func (c *Controller) buildCandidate(form BillForm) entity.Bill {
	amount, err := strconv.Atoi(form.Amount)
	if err != nil {
		c.logger.Warn("Unparsable amount, storing zero", zap.String("amount", form.Amount))
		amount = 0
	}

	pct, err := strconv.Atoi(form.Pct)
	if err != nil {
		pct = defaultPct
	}

	return entity.Bill{
		Email:      c.user.Email,
		Type:       form.Type,
		Name:       form.Name,
		Amount:     amount,
		Date:       form.Date,
		VAT:        form.VAT,
		Pct:        pct,
		Commentary: form.Commentary,
		FileURL:    c.fileURL,
		FileName:   c.fileName,
		Status:     entity.StatusPending,
	}
}

// Wait blocks until in-flight persistence calls are done. Tests use it to
// observe the fire-and-forget submit.
func (c *Controller) Wait() {
	c.pending.Wait()
}
