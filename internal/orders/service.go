package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buahsegar/storefront-backend/pkg/db/models"
	"github.com/buahsegar/storefront-backend/pkg/enums"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
)

// Service exposes order history to customers and the fulfilment views to
// admins. Order creation happens in checkout; this service only reads and
// transitions existing snapshots.
type Service interface {
	MyOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) (*OrderDTO, error)
	AdminList(ctx context.Context) ([]OrderDTO, error)
	AdminSummary(ctx context.Context) (*SummaryDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error)
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
	PaidTotals(ctx context.Context) (int64, int64, error)
}

type service struct {
	repo orderRepository
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo orderRepository
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) MyOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	dtos, err := FromModels(items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode orders")
	}
	return dtos, nil
}

// GetOrder loads one order. Non-admins only see their own orders; another
// user's order reads as not found rather than forbidden so order ids do
// not leak.
func (s *service) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !isAdmin && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	dto, err := FromModel(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order")
	}
	return dto, nil
}

// MarkPaid performs the pending -> paid transition exactly once. A repeat
// call, or a call against an order in any other status, is a state conflict.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) (*OrderDTO, error) {
	changed, err := s.repo.MarkPaid(ctx, orderID, paidAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
	}
	if !changed {
		if _, err := s.repo.FindByID(ctx, orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pending")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	dto, err := FromModel(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order")
	}
	return dto, nil
}

func (s *service) AdminList(ctx context.Context) ([]OrderDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	dtos, err := FromModels(items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode orders")
	}
	return dtos, nil
}

// AdminSummary aggregates the dashboard numbers. Revenue covers every order
// that has been paid, including ones that have since moved to processing,
// shipped, or delivered.
func (s *service) AdminSummary(ctx context.Context) (*SummaryDTO, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	revenueSum, paidCount, err := s.repo.PaidTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}

	revenue := decimal.NewFromInt(revenueSum)
	average := decimal.Zero
	if paidCount > 0 {
		average = revenue.DivRound(decimal.NewFromInt(paidCount), 2)
	}

	return &SummaryDTO{
		TotalOrders:   total,
		PaidOrders:    paidCount,
		PendingOrders: counts[enums.OrderStatusPending],
		Revenue:       revenue,
		AverageOrder:  average,
	}, nil
}

// AdminUpdateStatus sets a fulfilment status. The paid transition stays
// exclusive to the payment notification path.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]string{"status": fmt.Sprintf("%q is not a known status", status)})
	}
	if parsed == enums.OrderStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paid is set by the payment gateway").
			WithDetails(map[string]string{"status": "orders move to paid through the payment notification"})
	}

	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	dto, err := FromModel(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order")
	}
	return dto, nil
}
