package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buahsegar/storefront-backend/internal/auth"
	"github.com/buahsegar/storefront-backend/pkg/db/models"
	pkgerrors "github.com/buahsegar/storefront-backend/pkg/errors"
)

// Service defines the cart behavior needed by the controllers and checkout.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	EnsureCart(ctx context.Context, userID uuid.UUID) error
}

type cartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error
	DeleteAllItems(ctx context.Context, cartID uuid.UUID) error
	NextPosition(ctx context.Context, cartID uuid.UUID) (int, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	carts    cartRepository
	products productFinder
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	CartRepo    cartRepository
	ProductRepo productFinder
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		carts:    params.CartRepo,
		products: params.ProductRepo,
	}, nil
}

// SubscribeToAuth lazily creates a cart when a user logs in. The returned
// function detaches the subscription.
func SubscribeToAuth(notifier *auth.Notifier, svc Service) func() {
	return notifier.Subscribe(func(ctx context.Context, event auth.Event) {
		if event.Type == auth.EventLogin {
			_ = svc.EnsureCart(ctx, event.UserID)
		}
	})
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(cart), nil
}

// AddItem increments the quantity when the product is already in the cart,
// otherwise appends a new line capturing the product snapshot.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	for _, item := range cart.Items {
		if item.ProductID == req.ProductID {
			if err := s.carts.UpdateItemQuantity(ctx, item.ID, item.Quantity+req.Quantity); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment quantity")
			}
			return s.reload(ctx, userID)
		}
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	position, err := s.carts.NextPosition(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "next position")
	}

	line := &models.CartItem{
		CartID:      cart.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		ImageURL:    product.ImageURL,
		Quantity:    req.Quantity,
		Position:    position,
	}
	if err := s.carts.CreateItem(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append cart item")
	}

	return s.reload(ctx, userID)
}

// UpdateQuantity replaces a line's quantity. Quantities below one leave
// the cart unchanged.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	if quantity < 1 {
		return FromModel(cart), nil
	}

	for _, item := range cart.Items {
		if item.ProductID == productID {
			if err := s.carts.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update quantity")
			}
			return s.reload(ctx, userID)
		}
	}

	return FromModel(cart), nil
}

// RemoveItem deletes the product's line; removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.carts.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return s.reload(ctx, userID)
}

// Clear empties the cart; the empty state is persisted.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.carts.DeleteAllItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// EnsureCart creates the user's cart if it does not exist yet.
func (s *service) EnsureCart(ctx context.Context, userID uuid.UUID) error {
	_, err := s.carts.FindOrCreateByUser(ctx, userID)
	return err
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return FromModel(cart), nil
}
