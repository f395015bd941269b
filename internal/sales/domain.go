package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a committed sales transaction. A Sale is written exactly
// once, after the wallet debit and the stock decrement have both been
// confirmed, and is never mutated afterwards.
type Sale struct {
	ID         string          `json:"id"`
	CustomerID int64           `json:"customer_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductSnapshot is the inventory service's view of a product at the moment
// it was fetched. Stock and price are not re-verified at commit time.
type ProductSnapshot struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	PricePerItem float64 `json:"price_per_item"`
	Description  string  `json:"description"`
	CountInStock int     `json:"count_in_stock"`
}

// CustomerSnapshot is the customers service's view of a customer.
type CustomerSnapshot struct {
	ID            int64   `json:"id"`
	FullName      string  `json:"full_name"`
	Username      string  `json:"username"`
	Age           int     `json:"age"`
	Address       string  `json:"address"`
	Gender        string  `json:"gender"`
	MaritalStatus string  `json:"marital_status"`
	WalletBalance float64 `json:"wallet_balance"`
}

// Quote pairs the two snapshots a single sale attempt validated against,
// plus the total it computed from them. It lives only for that attempt.
type Quote struct {
	Product  ProductSnapshot
	Customer CustomerSnapshot
	Quantity int
	Total    decimal.Decimal
}

// Good is the reduced product view returned by the public goods listing.
type Good struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog is the inventory collaborator as seen by the orchestrator.
type Catalog interface {
	ListProducts(ctx context.Context) ([]ProductSnapshot, error)
	GetProduct(ctx context.Context, id int64) (*ProductSnapshot, error)
	// SetStock writes newCount only if the collaborator still holds
	// expectedCount. A conflict is reported as ErrStockUpdateFailed.
	SetStock(ctx context.Context, id int64, newCount, expectedCount int) error
}

// Customers is the customers collaborator: identity lookup plus the wallet
// ledger. Deduct and Credit are idempotent per requestID at the collaborator.
type Customers interface {
	GetCustomer(ctx context.Context, username string) (*CustomerSnapshot, error)
	Authenticate(ctx context.Context, username, password string) (int64, error)
	Deduct(ctx context.Context, username string, amount decimal.Decimal, requestID string) error
	Credit(ctx context.Context, username string, amount decimal.Decimal, requestID string) error
}
