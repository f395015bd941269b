package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"resty.dev/v3"

	"sales_api/internal/config"
	"sales_api/internal/sales"
)

// CustomersClient talks to the customers service: identity lookup plus the
// wallet ledger. It implements sales.Customers.
type CustomersClient struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewCustomersClient creates a customers client against the customers
// service configured in cfg.
func NewCustomersClient(cfg *config.Config, logger *zap.Logger) *CustomersClient {
	return &CustomersClient{
		http:   newHTTPClient(cfg.CustomersServiceURL, cfg.ClientTimeout, cfg.ClientRetries, cfg.ClientRetryWait),
		logger: logger,
	}
}

// Close releases the underlying HTTP client resources.
func (c *CustomersClient) Close() error {
	return c.http.Close()
}

// GetCustomer fetches the customer snapshot by username.
func (c *CustomersClient) GetCustomer(ctx context.Context, username string) (*sales.CustomerSnapshot, error) {
	var customer sales.CustomerSnapshot
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&customer).
		Get("/customers/" + username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sales.ErrIdentityUnavailable, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", sales.ErrCustomerNotFound, username)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", sales.ErrIdentityUnavailable, resp.StatusCode())
	}
	return &customer, nil
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	ID int64 `json:"id"`
}

// Authenticate validates credentials and returns the customer's id.
func (c *CustomersClient) Authenticate(ctx context.Context, username, password string) (int64, error) {
	var result authResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(authRequest{Username: username, Password: password}).
		SetResult(&result).
		Post("/auth")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", sales.ErrIdentityUnavailable, err)
	}
	if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusForbidden {
		return 0, sales.ErrUnauthenticated
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("%w: status %d", sales.ErrIdentityUnavailable, resp.StatusCode())
	}
	return result.ID, nil
}

// walletRequest is the body of both ledger operations. RequestID makes each
// operation idempotent at the collaborator: retrying the same id is a no-op
// that returns the already-applied balance.
type walletRequest struct {
	Amount    float64 `json:"amount"`
	RequestID string  `json:"request_id"`
}

// Deduct debits the customer's wallet. The ledger's own insufficient-funds
// rejection (400) is authoritative and mapped to ErrInsufficientFunds; any
// other failure is ErrWalletDebitFailed.
func (c *CustomersClient) Deduct(ctx context.Context, username string, amount decimal.Decimal, requestID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(walletRequest{Amount: amount.InexactFloat64(), RequestID: requestID}).
		Post("/customers/" + username + "/deduct")
	if err != nil {
		return fmt.Errorf("%w: %v", sales.ErrWalletDebitFailed, err)
	}
	if resp.StatusCode() == http.StatusBadRequest {
		return fmt.Errorf("%w: rejected by wallet ledger", sales.ErrInsufficientFunds)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d", sales.ErrWalletDebitFailed, resp.StatusCode())
	}
	return nil
}

// Credit returns funds to the customer's wallet. Used only as the
// compensating action after a failed stock update.
func (c *CustomersClient) Credit(ctx context.Context, username string, amount decimal.Decimal, requestID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(walletRequest{Amount: amount.InexactFloat64(), RequestID: requestID}).
		Post("/customers/" + username + "/add")
	if err != nil {
		return fmt.Errorf("credit request failed: %w", err)
	}
	if !resp.IsSuccess() {
		c.logger.Error("credit rejected by customers service",
			zap.String("username", username),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("credit rejected: status %d", resp.StatusCode())
	}
	return nil
}
