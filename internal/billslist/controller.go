package billslist

import (
	"context"
	"errors"
	"fmt"

	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/routes"
	"github.com/billed-app/billed-portal/internal/store"
	"go.uber.org/zap"
)

// serviceErrorMessage is shown when the store reports a server failure.
const serviceErrorMessage = "Erreur de service"

var errServiceUnavailable = errors.New(serviceErrorMessage)

// Controller fetches the bill collection once per render and surfaces the
// three presentation modes to the view boundary.
type Controller struct {
	store    store.Store
	navigate routes.NavigateFunc
	seed     []entity.Bill
	logger   *zap.Logger
}

// NewController creates a bills-list controller. store may be nil, in which
// case Render shows the seed list directly (static rendering without a
// backend).
func NewController(st store.Store, navigate routes.NavigateFunc, seed []entity.Bill, logger *zap.Logger) *Controller {
	return &Controller{
		store:    st,
		navigate: navigate,
		seed:     seed,
		logger:   logger,
	}
}

// GetBills returns the raw bill collection from the store.
func (c *Controller) GetBills(ctx context.Context) ([]entity.Bill, error) {
	if c.store == nil {
		return c.seed, nil
	}
	bills, err := c.store.Bills().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}
	return bills, nil
}

// Render produces the page body: the sorted list, or an empty list when the
// store has no bills resource (404), or the error view on a server failure.
// Any unclassified failure propagates to the caller.
func (c *Controller) Render(ctx context.Context) (string, error) {
	if c.store == nil {
		return View(Input{Bills: c.seed})
	}

	bills, err := c.store.Bills().List(ctx)
	if err != nil {
		switch {
		case store.IsNotFound(err):
			c.logger.Info("No bills resource, rendering empty list", zap.Error(err))
			return View(Input{})
		case store.IsServerError(err):
			c.logger.Error("Store failed to list bills", zap.Error(err))
			return View(Input{Err: errServiceUnavailable})
		default:
			return "", fmt.Errorf("failed to fetch bills: %w", err)
		}
	}

	return View(Input{Bills: bills})
}

// HandleClickIconEye opens the receipt preview for one bill, scaled to half
// the container width. Pure side effect, no state is retained.
func (c *Controller) HandleClickIconEye(bill entity.Bill, containerWidth int) string {
	fileURL := ""
	if bill.FileURL != nil {
		fileURL = *bill.FileURL
	}
	return ReceiptModal(fileURL, containerWidth)
}
