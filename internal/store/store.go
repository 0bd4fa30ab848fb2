package store

import (
	"context"

	"github.com/billed-app/billed-portal/internal/entity"
)

// Store is the persistence collaborator consumed by the controllers.
// Implementations: httpstore (remote API client) and dbstore (in-process,
// repository backed). Controllers receive a Store at construction time; a
// nil Store means static rendering without a backend.
type Store interface {
	Bills() BillsService
}

// FileSelection carries the receipt picked in the file input.
type FileSelection struct {
	Name        string
	ContentType string
	Content     []byte
}

// CreateRequest is the multipart payload of a bill creation. The upload path
// sends File plus the owner Email; the direct-submit path (no previously
// uploaded receipt) sends Bill instead of File.
type CreateRequest struct {
	File  *FileSelection
	Email string
	Bill  *entity.Bill
}

// CreateResponse is the store's answer to a creation: where the receipt
// lives and the key of the created bill.
type CreateResponse struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// BillsService exposes the bills sub-resource of the store.
type BillsService interface {
	// Create creates a pending bill from a multipart payload.
	Create(ctx context.Context, req CreateRequest) (*CreateResponse, error)

	// Update replaces the fields of an existing bill.
	Update(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error)

	// List returns every stored bill.
	List(ctx context.Context) ([]entity.Bill, error)
}
