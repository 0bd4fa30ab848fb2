// Package dbstore implements the bills store over the local repository and
// receipt storage. It backs both the HTTP API and the in-process portal, so
// both surfaces share one set of semantics.
package dbstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/repository"
	"github.com/billed-app/billed-portal/internal/routes"
	"github.com/billed-app/billed-portal/internal/storage"
	"github.com/billed-app/billed-portal/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store implements store.Store on top of SQLite and local receipt files.
type Store struct {
	repo     *repository.BillRepository
	receipts *storage.ReceiptStorage
	logger   *zap.Logger
}

// New creates a repository-backed store.
func New(repo *repository.BillRepository, receipts *storage.ReceiptStorage, logger *zap.Logger) *Store {
	return &Store{
		repo:     repo,
		receipts: receipts,
		logger:   logger,
	}
}

// Bills returns the bills sub-resource.
func (s *Store) Bills() store.BillsService {
	return &billsService{store: s}
}

type billsService struct {
	store *Store
}

// Create stores the receipt (when present) and inserts a pending bill.
// The receipt file and its URL are populated together or not at all.
func (b *billsService) Create(ctx context.Context, req store.CreateRequest) (*store.CreateResponse, error) {
	s := b.store

	bill := entity.Bill{
		Email:  req.Email,
		Status: entity.StatusPending,
	}
	if req.Bill != nil {
		bill = *req.Bill
		bill.Status = entity.StatusPending
		if bill.Email == "" {
			bill.Email = req.Email
		}
	}
	bill.ID = uuid.NewString()

	if req.File != nil {
		if !entity.AllowedReceiptFile(req.File.Name) {
			return nil, store.NewStatusError(http.StatusUnsupportedMediaType,
				fmt.Sprintf("receipt type not allowed: %s", req.File.Name))
		}

		storageName := uuid.NewString() + strings.ToLower(filepath.Ext(req.File.Name))
		if _, err := s.receipts.Save(storageName, req.File.Content); err != nil {
			return nil, fmt.Errorf("failed to store receipt: %w", err)
		}

		fileURL := routes.Receipts + "/" + storageName
		fileName := req.File.Name
		bill.FileURL = &fileURL
		bill.FileName = &fileName
	}

	if err := s.repo.Create(ctx, &bill); err != nil {
		return nil, err
	}

	s.logger.Info("Bill created",
		zap.String("id", bill.ID),
		zap.String("email", bill.Email),
		zap.Bool("has_receipt", bill.FileURL != nil))

	resp := &store.CreateResponse{Key: bill.ID}
	if bill.FileURL != nil {
		resp.FileURL = *bill.FileURL
	}
	return resp, nil
}

// Update replaces the fields of an existing bill.
func (b *billsService) Update(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error) {
	s := b.store

	updated := *bill
	updated.ID = id

	err := s.repo.Update(ctx, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NewStatusError(http.StatusNotFound, fmt.Sprintf("bill %s not found", id))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bill updated", zap.String("id", id))
	return &updated, nil
}

// List returns every stored bill.
func (b *billsService) List(ctx context.Context) ([]entity.Bill, error) {
	return b.store.repo.List(ctx, "")
}

// Verify interface compliance
var _ store.Store = (*Store)(nil)
