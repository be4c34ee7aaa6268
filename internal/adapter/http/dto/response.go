package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
)

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	TransactionID           string          `json:"transaction_id"`
	UserID                  string          `json:"user_id"`
	OrderID                 *string         `json:"order_id,omitempty"`
	OrderNumber             string          `json:"order_number,omitempty"`
	OrderAccount            string          `json:"order_account,omitempty"`
	CompanyName             string          `json:"company_name,omitempty"`
	Description             string          `json:"description"`
	TransactionType         string          `json:"transaction_type"`
	Status                  string          `json:"status"`
	Amount                  decimal.Decimal `json:"amount"`
	BaseAmount              decimal.Decimal `json:"base_amount"`
	PreviousBalance         decimal.Decimal `json:"previous_balance"`
	CurrentBalance          decimal.Decimal `json:"current_balance"`
	IsSupervisorTransaction bool            `json:"is_supervisor_transaction"`
	Metadata                map[string]any  `json:"metadata,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain ledger entry to a response.
func TransactionFromDomain(e *domain.LedgerEntry) *TransactionResponse {
	return &TransactionResponse{
		TransactionID:           e.TransactionID,
		UserID:                  e.UserID,
		OrderID:                 e.OrderID,
		OrderNumber:             e.OrderNumber,
		OrderAccount:            e.OrderAccount,
		CompanyName:             e.CompanyName,
		Description:             e.Description,
		TransactionType:         string(e.TransactionType),
		Status:                  string(e.Status),
		Amount:                  e.Amount,
		BaseAmount:              e.BaseAmount,
		PreviousBalance:         e.PreviousBalance,
		CurrentBalance:          e.CurrentBalance,
		IsSupervisorTransaction: e.IsSupervisorTransaction,
		Metadata:                e.Metadata,
		CreatedAt:               e.CreatedAt,
	}
}

// TransactionsFromDomain converts domain ledger entries to responses.
func TransactionsFromDomain(entries []*domain.LedgerEntry) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, e := range entries {
		result[i] = TransactionFromDomain(e)
	}
	return result
}

// DualTransactionResponse represents a written pair in API responses.
type DualTransactionResponse struct {
	Customer   *TransactionResponse `json:"customer"`
	Supervisor *TransactionResponse `json:"supervisor"`
}

// DualTransactionFromDomain converts a written pair to a response.
func DualTransactionFromDomain(pair *usecase.DualTransaction) *DualTransactionResponse {
	return &DualTransactionResponse{
		Customer:   TransactionFromDomain(pair.Customer),
		Supervisor: TransactionFromDomain(pair.Supervisor),
	}
}

// RefundResponse represents the outcome of a refund request.
type RefundResponse struct {
	Customer   *TransactionResponse `json:"customer"`
	Supervisor *TransactionResponse `json:"supervisor,omitempty"`
	Created    bool                 `json:"created"`
}

// RefundFromResult converts a refund result to a response.
func RefundFromResult(result *usecase.RefundResult) *RefundResponse {
	resp := &RefundResponse{
		Customer: TransactionFromDomain(result.Customer),
		Created:  result.Created,
	}
	if result.Supervisor != nil {
		resp.Supervisor = TransactionFromDomain(result.Supervisor)
	}
	return resp
}

// StatusChangeResponse reports how a status transition was handled. A failed
// refund write is data here, never a webhook failure.
type StatusChangeResponse struct {
	ShouldRefund  bool   `json:"should_refund"`
	Reason        string `json:"reason,omitempty"`
	RefundCreated bool   `json:"refund_created"`
	RefundError   string `json:"refund_error,omitempty"`
}

// StatusChangeFromResult converts a status change result to a response.
func StatusChangeFromResult(result *usecase.StatusChangeResult) *StatusChangeResponse {
	return &StatusChangeResponse{
		ShouldRefund:  result.Decision.ShouldRefund,
		Reason:        result.Decision.Reason,
		RefundCreated: result.RefundCreated,
		RefundError:   result.RefundError,
	}
}

// BalanceResponse represents a user balance in API responses.
type BalanceResponse struct {
	UserID        string          `json:"user_id"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
	AllowNegative bool            `json:"allow_negative"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.UserBalance) *BalanceResponse {
	return &BalanceResponse{
		UserID:        b.UserID,
		Balance:       b.Balance,
		Version:       b.Version,
		AllowNegative: b.AllowNegative,
		UpdatedAt:     b.UpdatedAt,
	}
}

// OrderDriftResponse is one row of the drift report.
type OrderDriftResponse struct {
	OrderID         string          `json:"order_id"`
	CustomerTotal   decimal.Decimal `json:"customer_total"`
	SupervisorTotal decimal.Decimal `json:"supervisor_total"`
	Drift           decimal.Decimal `json:"drift"`
}

// DriftReportResponse represents the drift report in API responses.
type DriftReportResponse struct {
	CheckedAt time.Time             `json:"checked_at"`
	Orders    []*OrderDriftResponse `json:"orders"`
}

// DriftReportFromDomain converts a drift report to a response.
func DriftReportFromDomain(report *usecase.DriftReport) *DriftReportResponse {
	orders := make([]*OrderDriftResponse, len(report.Orders))
	for i, o := range report.Orders {
		orders[i] = &OrderDriftResponse{
			OrderID:         o.OrderID,
			CustomerTotal:   o.CustomerTotal,
			SupervisorTotal: o.SupervisorTotal,
			Drift:           o.Drift,
		}
	}
	return &DriftReportResponse{
		CheckedAt: report.CheckedAt,
		Orders:    orders,
	}
}

// PriceRatioResponse represents a customer's effective price ratio.
type PriceRatioResponse struct {
	UserID     string          `json:"user_id"`
	PriceRatio decimal.Decimal `json:"price_ratio"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
