// Package httpstore is the HTTP client for a remote bills store exposing the
// API served by internal/server.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/billed-app/billed-portal/internal/entity"
	"github.com/billed-app/billed-portal/internal/store"
	"go.uber.org/zap"
)

// Config holds HTTP store client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements store.Store against a remote bills API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a new HTTP store client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Bills returns the bills sub-resource.
func (c *Client) Bills() store.BillsService {
	return &billsService{client: c}
}

type billsService struct {
	client *Client
}

// Create sends a multipart creation request carrying the receipt file and
// owner email, or the bill fields when no receipt was uploaded.
func (s *billsService) Create(ctx context.Context, req store.CreateRequest) (*store.CreateResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if req.File != nil {
		part, err := writer.CreateFormFile("file", req.File.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build file part: %w", err)
		}
		if _, err := part.Write(req.File.Content); err != nil {
			return nil, fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := writer.WriteField("email", req.Email); err != nil {
		return nil, fmt.Errorf("failed to write email field: %w", err)
	}

	if req.Bill != nil {
		billJSON, err := json.Marshal(req.Bill)
		if err != nil {
			return nil, fmt.Errorf("failed to encode bill: %w", err)
		}
		if err := writer.WriteField("bill", string(billJSON)); err != nil {
			return nil, fmt.Errorf("failed to write bill field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+"/bills", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var resp store.CreateResponse
	if err := s.client.do(httpReq, &resp); err != nil {
		return nil, err
	}

	s.client.logger.Debug("Bill created",
		zap.String("key", resp.Key),
		zap.String("file_url", resp.FileURL))
	return &resp, nil
}

// Update replaces the fields of an existing bill.
func (s *billsService) Update(ctx context.Context, id string, bill *entity.Bill) (*entity.Bill, error) {
	payload, err := json.Marshal(bill)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bill: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut,
		s.client.baseURL+"/bills/"+id, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build update request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var updated entity.Bill
	if err := s.client.do(httpReq, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// List returns every stored bill.
func (s *billsService) List(ctx context.Context) ([]entity.Bill, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.baseURL+"/bills", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	var bills []entity.Bill
	if err := s.client.do(httpReq, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// do executes the request and decodes a JSON response into out. Non-2xx
// responses become *store.StatusError so callers can classify failures.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read store response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("Store request rejected",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return store.NewStatusError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode store response: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ store.Store = (*Client)(nil)
