package clients

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"resty.dev/v3"

	"sales_api/internal/config"
	"sales_api/internal/sales"
)

// CatalogClient talks to the inventory service. It implements sales.Catalog.
type CatalogClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewCatalogClient creates a catalog client against the inventory service
// configured in cfg.
func NewCatalogClient(cfg *config.Config, logger *zap.Logger) *CatalogClient {
	return &CatalogClient{
		http:   newHTTPClient(cfg.InventoryServiceURL, cfg.ClientTimeout, cfg.ClientRetries, cfg.ClientRetryWait),
		logger: logger,
	}
}

// Close releases the underlying HTTP client resources.
func (c *CatalogClient) Close() error {
	return c.http.Close()
}

// ListProducts fetches the full catalog snapshot.
func (c *CatalogClient) ListProducts(ctx context.Context) ([]sales.ProductSnapshot, error) {
	var products []sales.ProductSnapshot
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		Get("/inventory")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sales.ErrCatalogUnavailable, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", sales.ErrCatalogUnavailable, resp.StatusCode())
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (c *CatalogClient) GetProduct(ctx context.Context, id int64) (*sales.ProductSnapshot, error) {
	var product sales.ProductSnapshot
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("/inventory/%d", id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sales.ErrCatalogUnavailable, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: id %d", sales.ErrProductNotFound, id)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", sales.ErrCatalogUnavailable, resp.StatusCode())
	}
	return &product, nil
}

type stockUpdateRequest struct {
	CountInStock  int `json:"count_in_stock"`
	ExpectedCount int `json:"expected_count"`
}

// SetStock writes the product's new stock count, conditional on the count the
// caller validated against. The inventory service rejects the write with 409
// when the stored count no longer matches expectedCount.
func (c *CatalogClient) SetStock(ctx context.Context, id int64, newCount, expectedCount int) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(stockUpdateRequest{CountInStock: newCount, ExpectedCount: expectedCount}).
		Put(fmt.Sprintf("/inventory/%d", id))
	if err != nil {
		return fmt.Errorf("%w: %v", sales.ErrStockUpdateFailed, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		c.logger.Warn("conditional stock update rejected",
			zap.Int64("product_id", id),
			zap.Int("expected_count", expectedCount))
		return fmt.Errorf("%w: stock changed concurrently", sales.ErrStockUpdateFailed)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d", sales.ErrStockUpdateFailed, resp.StatusCode())
	}
	return nil
}
