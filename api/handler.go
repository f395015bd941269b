package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_api/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for the
// sale orchestration and the goods read-through endpoints.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

type makeSaleRequest struct {
	ProductName string `json:"product_name"`
	Username    string `json:"username"`
	Quantity    *int   `json:"quantity"`
	Password    string `json:"password"`
}

// handleMakeSale handles the POST /sale endpoint. Quantity defaults to 1
// when absent. When a password is supplied the customer is authenticated
// before the sale runs; without one the sale runs unauthenticated.
func (h *salesHandler) handleMakeSale(ctx *gin.Context) {
	var req makeSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "code": "bad_request"})
		return
	}
	if req.ProductName == "" || req.Username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "product_name and username are required", "code": "bad_request"})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if req.Password != "" {
		if _, err := h.salesService.Authenticate(ctx.Request.Context(), req.Username, req.Password); err != nil {
			if errors.Is(err, sales.ErrUnauthenticated) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Customer not authenticated or does not exist.", "code": "unauthenticated"})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Customer service unavailable", "code": "identity_unavailable"})
			return
		}
	}

	sale, balance, err := h.salesService.ExecuteSale(ctx.Request.Context(), req.ProductName, req.Username, quantity)
	if err != nil {
		h.logger.Error("sale failed",
			zap.String("product_name", req.ProductName),
			zap.String("username", req.Username),
			zap.Int("quantity", quantity),
			zap.Error(err))
		status, body := saleErrorResponse(err)
		ctx.JSON(status, body)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Sale successful",
		"sale_id": sale.ID,
		"balance": balance.InexactFloat64(),
	})
}

// saleErrorResponse maps an orchestration failure to a status, a
// user-readable error, and a machine-readable code. The unreconciled
// partial failure (debit kept, stock unchanged, compensation failed) gets
// its own code so callers can tell it apart from a clean rollback.
func saleErrorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, sales.ErrInvalidQuantity):
		return http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer", "code": "invalid_quantity"}
	case errors.Is(err, sales.ErrProductNotFound):
		return http.StatusNotFound, gin.H{"error": "Product not found", "code": "product_not_found"}
	case errors.Is(err, sales.ErrCustomerNotFound):
		return http.StatusNotFound, gin.H{"error": "Customer not found", "code": "customer_not_found"}
	case errors.Is(err, sales.ErrInsufficientStock):
		return http.StatusBadRequest, gin.H{"error": "Insufficient stock", "code": "insufficient_stock"}
	case errors.Is(err, sales.ErrInsufficientFunds):
		return http.StatusBadRequest, gin.H{"error": "Insufficient funds", "code": "insufficient_funds"}
	case errors.Is(err, sales.ErrCatalogUnavailable):
		return http.StatusInternalServerError, gin.H{"error": "Failed to fetch products from inventory", "code": "catalog_unavailable"}
	case errors.Is(err, sales.ErrIdentityUnavailable):
		return http.StatusInternalServerError, gin.H{"error": "Customer service unavailable", "code": "identity_unavailable"}
	case errors.Is(err, sales.ErrWalletDebitFailed):
		return http.StatusInternalServerError, gin.H{"error": "Failed to update customer wallet", "code": "wallet_debit_failed"}
	case errors.Is(err, sales.ErrStockUpdateFailed) && errors.Is(err, sales.ErrCompensationFailed):
		return http.StatusInternalServerError, gin.H{"error": "Failed to update product stock", "code": "stock_update_failed_unreconciled"}
	case errors.Is(err, sales.ErrStockUpdateFailed):
		return http.StatusInternalServerError, gin.H{"error": "Failed to update product stock", "code": "stock_update_failed"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"}
	}
}

// handleGetGoods handles GET /goods: the public name/price listing.
func (h *salesHandler) handleGetGoods(ctx *gin.Context) {
	goods, err := h.salesService.ListGoods(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch goods", "code": "catalog_unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, goods)
}

// handleGetGoodsDetails handles GET /goods/:id.
func (h *salesHandler) handleGetGoodsDetails(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id", "code": "bad_request"})
		return
	}

	product, err := h.salesService.GetGoods(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sales.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Product was not found", "code": "product_not_found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch product", "code": "catalog_unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// handleSearchSales handles GET /sales with optional customer_id and
// product_id filters.
func (h *salesHandler) handleSearchSales(ctx *gin.Context) {
	customerID, err := parseOptionalID(ctx.Query("customer_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id", "code": "bad_request"})
		return
	}
	productID, err := parseOptionalID(ctx.Query("product_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id", "code": "bad_request"})
		return
	}

	results, metadata, err := h.salesService.SearchSales(customerID, productID)
	if err != nil {
		h.logger.Error("error searching sales", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search sales", "code": "internal"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results, "metadata": metadata})
}

func parseOptionalID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
