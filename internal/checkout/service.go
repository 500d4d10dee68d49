package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/buahsegar/storefront-backend/internal/cart"
	"github.com/buahsegar/storefront-backend/internal/orders"
	"github.com/buahsegar/storefront-backend/pkg/config"
	"github.com/buahsegar/storefront-backend/pkg/db/models"
	"github.com/buahsegar/storefront-backend/pkg/enums"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
	"github.com/buahsegar/storefront-backend/pkg/logger"
	"github.com/buahsegar/storefront-backend/pkg/payment"
)

// Service orchestrates checkout: it turns the cart into an order snapshot,
// requests a payment widget token, and applies the gateway's notifications.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error)
	HandleNotification(ctx context.Context, n payment.Notification) error
	Options() []ShippingOptionDTO
}

type cartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) error
}

type paidMarker interface {
	MarkPaid(ctx context.Context, orderID uuid.UUID, paidAt time.Time) (*orders.OrderDTO, error)
}

type tokenIssuer interface {
	CreateTransaction(ctx context.Context, req payment.TransactionRequest) (*payment.TransactionToken, error)
	ServerKey() string
}

type service struct {
	carts    cartService
	users    userFinder
	orders   orderWriter
	payments paidMarker
	gateway  tokenIssuer
	shipping config.ShippingConfig
	logger   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Cart      cartService
	Users     userFinder
	OrderRepo orderWriter
	Orders    paidMarker
	Gateway   tokenIssuer
	Shipping  config.ShippingConfig
	Logger    *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		carts:    params.Cart,
		users:    params.Users,
		orders:   params.OrderRepo,
		payments: params.Orders,
		gateway:  params.Gateway,
		shipping: params.Shipping,
		logger:   params.Logger,
	}, nil
}

// Options lists the delivery tiers offered at checkout.
func (s *service) Options() []ShippingOptionDTO {
	return ShippingOptions(s.shipping)
}

// Checkout snapshots the cart into an order, asks the gateway for a widget
// token, and returns both with the authoritative totals. The order total is
// always computed server-side as subtotal plus shipping. The cart stays
// intact until the gateway confirms payment.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	option, err := enums.ParseShippingOption(req.ShippingOption)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping option").
			WithDetails(map[string]string{"shipping_option": fmt.Sprintf("%q is not a known shipping option", req.ShippingOption)})
	}
	tier, ok := shippingOptionFor(s.shipping, option)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping option")
	}

	cartDTO, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	snapshot := make([]orders.ItemSnapshot, 0, len(cartDTO.Items))
	for _, line := range cartDTO.Items {
		snapshot = append(snapshot, orders.ItemSnapshot{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			ImageURL:  line.ImageURL,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	items, err := orders.MarshalItems(snapshot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot cart")
	}

	subtotal := cartDTO.Subtotal
	total := subtotal + tier.Cost

	order := &models.Order{
		UserID:          userID,
		CustomerEmail:   user.Email,
		CustomerName:    user.DisplayName,
		CustomerPhone:   deref(user.Phone),
		CustomerAddress: deref(user.Address),
		Items:           items,
		ShippingOption:  option,
		ShippingLabel:   tier.Label,
		ShippingCost:    tier.Cost,
		Subtotal:        subtotal,
		Total:           total,
		Status:          enums.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	gatewayItems := make([]payment.Item, 0, len(snapshot)+1)
	for _, line := range snapshot {
		gatewayItems = append(gatewayItems, payment.Item{
			ID:       line.ProductID.String(),
			Name:     line.Name,
			Price:    line.UnitPrice,
			Quantity: line.Quantity,
		})
	}
	gatewayItems = append(gatewayItems, payment.Item{
		ID:       string(option),
		Name:     tier.Label,
		Price:    tier.Cost,
		Quantity: 1,
	})

	token, err := s.gateway.CreateTransaction(ctx, payment.TransactionRequest{
		OrderID:     order.ID.String(),
		GrossAmount: total,
		Customer: payment.Customer{
			FirstName: user.DisplayName,
			Email:     user.Email,
			Phone:     deref(user.Phone),
			Address:   deref(user.Address),
		},
		Items: gatewayItems,
	})
	if err != nil {
		s.logger.Error(ctx, "payment token request failed", err)
		return nil, err
	}

	return &CheckoutResponse{
		OrderID:      order.ID,
		Token:        token.Token,
		RedirectURL:  token.RedirectURL,
		Subtotal:     subtotal,
		ShippingCost: tier.Cost,
		Total:        total,
	}, nil
}

// HandleNotification applies a gateway callback. Verified notifications are
// always acknowledged; only a successful payment mutates state, and only
// once. Duplicate success callbacks log a warning and acknowledge.
func (s *service) HandleNotification(ctx context.Context, n payment.Notification) error {
	if !n.VerifySignature(s.gateway.ServerKey()) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid notification signature")
	}

	result := n.Result()
	ctx = s.logger.WithFields(ctx, map[string]any{
		"order_id":   result.OrderID,
		"raw_status": result.RawStatus,
	})

	orderID, err := uuid.Parse(result.OrderID)
	if err != nil {
		s.logger.Warn(ctx, "notification carries malformed order id")
		return nil
	}

	switch result.Status {
	case payment.StatusSuccess:
		order, err := s.payments.MarkPaid(ctx, orderID, time.Now().UTC())
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && (typed.Code() == pkgerrors.CodeStateConflict || typed.Code() == pkgerrors.CodeNotFound) {
				s.logger.Warn(ctx, "payment notification ignored: "+typed.Message())
				return nil
			}
			return err
		}
		if err := s.carts.Clear(ctx, order.UserID); err != nil {
			s.logger.Error(ctx, "clear cart after payment", err)
		}
		s.logger.Info(ctx, "order paid")
	case payment.StatusPending:
		s.logger.Info(ctx, "payment pending")
	default:
		s.logger.Info(ctx, "payment failed")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
