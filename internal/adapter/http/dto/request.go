package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
)

var validate = validator.New()

// CreateTransactionRequest represents a request to charge or credit a
// customer through the dual-transaction writer.
type CreateTransactionRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required"`
	OrderID         *string         `json:"order_id,omitempty"`
	OrderNumber     string          `json:"order_number,omitempty"`
	OrderAccount    string          `json:"order_account,omitempty"`
	CompanyName     string          `json:"company_name,omitempty"`
	Description     string          `json:"description" validate:"required"`
	TransactionType string          `json:"transaction_type" validate:"required,oneof=debit credit"`
	Amount          decimal.Decimal `json:"amount"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}

// Validate checks the request fields.
func (r *CreateTransactionRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input. The supervisor side is fixed by
// service configuration, never chosen by the caller.
func (r *CreateTransactionRequest) ToUseCaseInput(supervisorID string) usecase.CreateDualTransactionInput {
	return usecase.CreateDualTransactionInput{
		CustomerID:      r.CustomerID,
		SupervisorID:    supervisorID,
		OrderID:         r.OrderID,
		OrderNumber:     r.OrderNumber,
		OrderAccount:    r.OrderAccount,
		CompanyName:     r.CompanyName,
		Description:     r.Description,
		TransactionType: domain.TransactionType(r.TransactionType),
		CustomerAmount:  r.Amount,
		BaseAmount:      r.BaseAmount,
		Metadata:        r.Metadata,
	}
}

// TopUpRequest represents an admin-approved balance top-up.
type TopUpRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// Validate checks the request fields.
func (r *TopUpRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *TopUpRequest) ToUseCaseInput(supervisorID string) usecase.TopUpInput {
	return usecase.TopUpInput{
		CustomerID:   r.CustomerID,
		SupervisorID: supervisorID,
		Description:  r.Description,
		Amount:       r.Amount,
	}
}

// OrderStatusRequest is the order-management collaborator's report of a
// status transition.
type OrderStatusRequest struct {
	OldStatus string `json:"old_status" validate:"required"`
	NewStatus string `json:"new_status" validate:"required"`
}

// Validate checks the request fields.
func (r *OrderStatusRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *OrderStatusRequest) ToUseCaseInput(orderID string) usecase.StatusChangeInput {
	return usecase.StatusChangeInput{
		OrderID:   orderID,
		OldStatus: domain.OrderStatus(r.OldStatus),
		NewStatus: domain.OrderStatus(r.NewStatus),
	}
}

// CreateRefundRequest represents a manual refund request. Zero amounts mean
// the service derives them from the original debit or the order's charge.
type CreateRefundRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	Reason     string          `json:"reason,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

// Validate checks the request fields.
func (r *CreateRefundRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *CreateRefundRequest) ToUseCaseInput(orderID, supervisorID string) usecase.CreateRefundInput {
	return usecase.CreateRefundInput{
		OrderID:              orderID,
		CustomerID:           r.CustomerID,
		SupervisorID:         supervisorID,
		Reason:               r.Reason,
		CustomerRefundAmount: r.Amount,
		BaseRefundAmount:     r.BaseAmount,
		Metadata:             r.Metadata,
	}
}
