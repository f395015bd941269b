package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Per-attempt states, logged so a failed transaction can be located in the
// flow. Terminal failures carry the last state that was reached.
const (
	stateStart            = "start"
	stateProductResolved  = "product_resolved"
	stateCustomerResolved = "customer_resolved"
	stateStockChecked     = "stock_checked"
	stateFundsChecked     = "funds_checked"
	stateWalletDebited    = "wallet_debited"
	stateStockDecremented = "stock_decremented"
	stateCommitted        = "committed"
)

// Service coordinates a sale across the inventory and customers services and
// owns the durable record of committed sales.
type Service struct {
	storage   Storage
	catalog   Catalog
	customers Customers
	logger    *zap.Logger

	// One mutex per product name serializes concurrent attempts against the
	// same product within this process. Across processes the collaborators'
	// conditional operations (SetStock expected count, Deduct rejection) are
	// the only guard.
	productLocks *xsync.MapOf[string, *sync.Mutex]
}

// SalesMetadata summarizes a sales search result.
type SalesMetadata struct {
	Quantity    int     `json:"quantity"`
	ItemsSold   int     `json:"items_sold"`
	TotalAmount float64 `json:"total_amount"`
}

// NewService creates a new Service.
func NewService(storage Storage, catalog Catalog, customers Customers, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	return &Service{
		storage:      storage,
		catalog:      catalog,
		customers:    customers,
		logger:       logger,
		productLocks: xsync.NewMapOf[string, *sync.Mutex](),
	}
}

// ExecuteSale runs one sale attempt as a strict sequence of collaborator
// calls: resolve product, resolve customer, check stock, check funds, debit
// wallet, decrement stock, commit. A failure at any step short-circuits the
// rest. If the stock decrement fails after the debit succeeded, a
// compensating credit for the debited amount is issued once; the caller is
// always given the stock-update error, joined with ErrCompensationFailed
// when the credit did not go through either.
//
// On success it returns the committed sale and the post-transaction balance,
// computed locally from the customer snapshot rather than re-fetched.
func (s *Service) ExecuteSale(ctx context.Context, productName, username string, quantity int) (*Sale, decimal.Decimal, error) {
	if quantity <= 0 {
		return nil, decimal.Zero, ErrInvalidQuantity
	}

	lock := s.lockFor(productName)
	lock.Lock()
	defer lock.Unlock()

	state := stateStart

	// 1. Resolve product: case-insensitive exact match on the full name,
	// first match wins in collaborator order.
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.logger.Error("failed to fetch products from inventory",
			zap.String("state", state), zap.Error(err))
		return nil, decimal.Zero, err
	}
	var product *ProductSnapshot
	for i := range products {
		if strings.EqualFold(products[i].Name, productName) {
			product = &products[i]
			break
		}
	}
	if product == nil {
		return nil, decimal.Zero, fmt.Errorf("%w: %q", ErrProductNotFound, productName)
	}
	state = stateProductResolved

	// 2. Resolve customer.
	customer, err := s.customers.GetCustomer(ctx, username)
	if err != nil {
		s.logger.Error("failed to fetch customer",
			zap.String("state", state), zap.String("username", username), zap.Error(err))
		return nil, decimal.Zero, err
	}
	state = stateCustomerResolved

	// 3. Validate stock.
	if product.CountInStock < quantity {
		return nil, decimal.Zero, fmt.Errorf("%w: have %d, want %d",
			ErrInsufficientStock, product.CountInStock, quantity)
	}
	state = stateStockChecked

	// 4. Validate funds.
	price := decimal.NewFromFloat(product.PricePerItem)
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	balance := decimal.NewFromFloat(customer.WalletBalance)
	if balance.LessThan(total) {
		return nil, decimal.Zero, fmt.Errorf("%w: balance %s, total %s",
			ErrInsufficientFunds, balance, total)
	}
	state = stateFundsChecked

	// 5. Debit wallet. The ledger is the authority on funds: its rejection
	// overrides the snapshot check above, which may be stale.
	debitID := uuid.NewString()
	if err := s.customers.Deduct(ctx, username, total, debitID); err != nil {
		s.logger.Error("wallet debit failed",
			zap.String("state", state), zap.String("username", username),
			zap.String("request_id", debitID), zap.Error(err))
		return nil, decimal.Zero, err
	}
	state = stateWalletDebited

	// 6. Decrement stock, conditional on the count we validated against.
	newCount := product.CountInStock - quantity
	if err := s.catalog.SetStock(ctx, product.ID, newCount, product.CountInStock); err != nil {
		s.logger.Error("stock update failed after debit, compensating",
			zap.String("state", state), zap.Int64("product_id", product.ID),
			zap.String("debit_request_id", debitID), zap.Error(err))
		return nil, decimal.Zero, s.compensate(ctx, username, total, err)
	}
	state = stateStockDecremented

	// 7. Commit.
	sale := &Sale{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Quantity:   quantity,
		TotalPrice: total,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.storage.Set(sale); err != nil {
		// Debit and decrement are already committed at the collaborators;
		// only the local record is missing.
		s.logger.Error("failed to save sale",
			zap.String("state", state), zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, decimal.Zero, fmt.Errorf("failed to save sale: %w", err)
	}
	state = stateCommitted

	newBalance := balance.Sub(total)
	s.logger.Info("sale committed",
		zap.String("state", state),
		zap.String("sale_id", sale.ID),
		zap.Int64("customer_id", customer.ID),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", quantity),
		zap.String("total_price", total.String()),
	)
	return sale, newBalance, nil
}

// compensate reverses a committed debit after a failed stock update. One
// credit is issued under a fresh request id (the ledger dedupes retries of
// the same id, so the client-level retry cannot double-credit). The original
// stock-update error is always what the caller sees.
func (s *Service) compensate(ctx context.Context, username string, amount decimal.Decimal, cause error) error {
	creditID := uuid.NewString()
	if err := s.customers.Credit(ctx, username, amount, creditID); err != nil {
		s.logger.Error("compensation credit failed, customer remains debited",
			zap.String("username", username),
			zap.String("amount", amount.String()),
			zap.String("request_id", creditID),
			zap.Error(err))
		return errors.Join(cause, ErrCompensationFailed)
	}
	s.logger.Warn("sale rolled back, debit compensated",
		zap.String("username", username),
		zap.String("amount", amount.String()),
		zap.String("request_id", creditID))
	return cause
}

// Authenticate validates credentials against the customers service and
// returns the customer's ID.
func (s *Service) Authenticate(ctx context.Context, username, password string) (int64, error) {
	return s.customers.Authenticate(ctx, username, password)
}

// ListGoods returns the public goods listing: name and price of every
// product currently in the catalog.
func (s *Service) ListGoods(ctx context.Context) ([]Good, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.logger.Error("failed to fetch goods", zap.Error(err))
		return nil, err
	}
	goods := make([]Good, 0, len(products))
	for _, p := range products {
		goods = append(goods, Good{Name: p.Name, Price: p.PricePerItem})
	}
	return goods, nil
}

// GetGoods returns the full product snapshot for one product.
func (s *Service) GetGoods(ctx context.Context, id int64) (*ProductSnapshot, error) {
	return s.catalog.GetProduct(ctx, id)
}

// SearchSales returns the committed sales matching the given filters
// (zero values match everything) along with summary metadata.
func (s *Service) SearchSales(customerID, productID int64) ([]*Sale, SalesMetadata, error) {
	allSales, err := s.storage.GetAll()
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, SalesMetadata{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	filtered := make([]*Sale, 0)
	metadata := SalesMetadata{}
	totalAmount := decimal.Zero

	for _, sale := range allSales {
		if customerID != 0 && sale.CustomerID != customerID {
			continue
		}
		if productID != 0 && sale.ProductID != productID {
			continue
		}
		filtered = append(filtered, sale)
		metadata.Quantity++
		metadata.ItemsSold += sale.Quantity
		totalAmount = totalAmount.Add(sale.TotalPrice)
	}
	metadata.TotalAmount = totalAmount.InexactFloat64()

	return filtered, metadata, nil
}

func (s *Service) lockFor(productName string) *sync.Mutex {
	key := strings.ToLower(productName)
	lock, _ := s.productLocks.LoadOrStore(key, &sync.Mutex{})
	return lock
}
