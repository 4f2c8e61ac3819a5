package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"acaiteria/internal/storehours"
	"acaiteria/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrStoreClosed          = errors.New("loja fechada")
	ErrDeliveryUnavailable  = errors.New("entrega indisponível no momento")
	ErrAddressRequired      = errors.New("endereço de entrega obrigatório")
	ErrProductUnavailable   = errors.New("produto indisponível")
	ErrInvalidChoice        = errors.New("escolha inválida para o produto")
	ErrMinimumOrder         = errors.New("pedido abaixo do valor mínimo")
	ErrInvalidChange        = errors.New("troco menor que o total do pedido")
	ErrInvalidTransition    = errors.New("mudança de status não permitida")
	ErrOrderNotCancellable  = errors.New("pedido não pode mais ser cancelado")
	ErrFulfillmentMismatch  = errors.New("status não se aplica a este tipo de pedido")
	ErrCancelReasonRequired = errors.New("motivo do cancelamento obrigatório")
)

// UnavailableError carries the evaluator's reason for refusing an order.
// It unwraps to ErrStoreClosed or ErrDeliveryUnavailable.
type UnavailableError struct {
	Err          error
	Reason       string
	NextOpenTime *string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// StoreAvailability is the part of StoreService used at checkout
type StoreAvailability interface {
	Availability(ctx context.Context) (*models.StoreSettings, storehours.Snapshot, error)
}

type AddressReader interface {
	GetByID(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type OrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) (*models.PaginationResult[models.Order], error)
	UpdateStatus(ctx context.Context, order *models.Order, status, cancelReason string, at time.Time) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// orderTransitions lista os próximos status permitidos a partir de cada status
var orderTransitions = map[string][]string{
	models.OrderStatusPending:        {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:      {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing:      {models.OrderStatusOutForDelivery, models.OrderStatusReadyForPickup, models.OrderStatusCancelled},
	models.OrderStatusOutForDelivery: {models.OrderStatusDelivered},
	models.OrderStatusReadyForPickup: {models.OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService handles checkout and order tracking
type OrderService struct {
	store       StoreAvailability
	products    ProductStore
	complements ComplementStore
	addresses   AddressReader
	users       UserReader
	orders      OrderStore
	clock       func() time.Time
}

func NewOrderService(store StoreAvailability, products ProductStore, complements ComplementStore, addresses AddressReader, users UserReader, orders OrderStore) *OrderService {
	return &OrderService{
		store:       store,
		products:    products,
		complements: complements,
		addresses:   addresses,
		users:       users,
		orders:      orders,
		clock:       time.Now,
	}
}

// Checkout validates the cart against the store hours and creates a pending order
func (s *OrderService) Checkout(ctx context.Context, customerID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {
	settings, snapshot, err := s.store.Availability(ctx)
	if err != nil {
		return nil, err
	}

	if !snapshot.Status.IsOpen {
		return nil, &UnavailableError{
			Err:          ErrStoreClosed,
			Reason:       textOf(snapshot.Status.Reason),
			NextOpenTime: snapshot.Status.NextOpenTime,
		}
	}

	order := &models.Order{
		CustomerID:    customerID,
		Status:        models.OrderStatusPending,
		Fulfillment:   req.Fulfillment,
		PaymentMethod: req.PaymentMethod,
		Observations:  strings.TrimSpace(req.Observations),
	}

	user, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	order.CustomerName = user.Name
	order.CustomerPhone = user.Phone

	if req.Fulfillment == models.FulfillmentDelivery {
		if !snapshot.Delivery.Available {
			return nil, &UnavailableError{Err: ErrDeliveryUnavailable, Reason: textOf(snapshot.Delivery.Reason)}
		}
		if req.AddressID == nil {
			return nil, ErrAddressRequired
		}
		address, err := s.addresses.GetByID(ctx, customerID, *req.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAddressRequired
			}
			return nil, err
		}
		order.AddressID = &address.ID
		order.ShippingStreet = address.Street
		order.ShippingNumber = address.Number
		order.ShippingComplement = address.Complement
		order.ShippingNeighborhood = address.Neighborhood
		order.ShippingCity = address.City
		order.ShippingReference = address.Reference
		order.DeliveryFeeCents = settings.DeliveryFeeCents
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items

	for _, item := range items {
		order.SubtotalCents += item.TotalCents
	}
	if order.SubtotalCents < settings.MinimumOrderCents {
		return nil, fmt.Errorf("%w (mínimo %s)", ErrMinimumOrder, FormatBRL(settings.MinimumOrderCents))
	}
	order.TotalCents = order.SubtotalCents + order.DeliveryFeeCents

	if req.PaymentMethod == models.PaymentCash && req.ChangeForCents > 0 {
		if req.ChangeForCents < order.TotalCents {
			return nil, ErrInvalidChange
		}
		order.ChangeForCents = req.ChangeForCents
	}

	number, err := s.nextOrderNumber(ctx, snapshot.EvaluatedAt)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("customer_id", customerID.String()).
		Str("fulfillment", order.Fulfillment).
		Int64("total_cents", order.TotalCents).
		Msg("Pedido criado")

	return order, nil
}

func (s *OrderService) priceItems(ctx context.Context, lines []models.CheckoutItemData) ([]models.OrderItem, error) {
	var productIDs, complementIDs []uuid.UUID
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
		complementIDs = append(complementIDs, line.FlavorIDs...)
		complementIDs = append(complementIDs, line.ComplementIDs...)
	}

	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	complements, err := s.complements.GetByIDs(ctx, complementIDs)
	if err != nil {
		return nil, err
	}
	complementByID := make(map[uuid.UUID]models.Complement, len(complements))
	for _, c := range complements {
		complementByID[c.ID] = c
	}

	lookup := func(ids []uuid.UUID) ([]models.Complement, error) {
		found := make([]models.Complement, 0, len(ids))
		for _, id := range ids {
			c, ok := complementByID[id]
			if !ok {
				return nil, fmt.Errorf("%w: complemento %s", ErrProductUnavailable, id)
			}
			found = append(found, c)
		}
		return found, nil
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := productByID[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.ProductID)
		}
		flavors, err := lookup(line.FlavorIDs)
		if err != nil {
			return nil, err
		}
		extras, err := lookup(line.ComplementIDs)
		if err != nil {
			return nil, err
		}

		item, err := PriceItem(product, line.Quantity, line.ChosenValueCents, flavors, extras)
		if err != nil {
			return nil, err
		}
		item.Notes = strings.TrimSpace(line.Notes)
		items = append(items, item)
	}
	return items, nil
}

// PriceItem calcula o item do pedido a partir do produto e das escolhas do cliente.
// Standard: preço do produto mais todos os complementos.
// Value based: valor escolhido (entre mínimo e máximo) mais os complementos além
// da cota gratuita, na ordem em que foram escolhidos.
func PriceItem(product models.Product, quantity int, chosenValue int64, flavors, complements []models.Complement) (models.OrderItem, error) {
	if !product.IsActive {
		return models.OrderItem{}, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
	}
	if quantity <= 0 {
		return models.OrderItem{}, fmt.Errorf("%w: quantidade %d", ErrInvalidChoice, quantity)
	}
	if len(flavors) > product.MaxFlavors {
		return models.OrderItem{}, fmt.Errorf("%w: no máximo %d sabores", ErrInvalidChoice, product.MaxFlavors)
	}

	productID := product.ID
	item := models.OrderItem{
		ProductID:   &productID,
		ProductName: product.Name,
		Quantity:    quantity,
	}

	flavorNames := make([]string, 0, len(flavors))
	for _, f := range flavors {
		if f.Kind != models.ComplementKindFlavor {
			return models.OrderItem{}, fmt.Errorf("%w: %s não é um sabor", ErrInvalidChoice, f.Name)
		}
		if !f.IsActive {
			return models.OrderItem{}, fmt.Errorf("%w: %s", ErrProductUnavailable, f.Name)
		}
		flavorNames = append(flavorNames, f.Name)
	}
	item.Flavors = strings.Join(flavorNames, ", ")

	var unit int64
	free := 0
	switch product.Kind {
	case models.ProductKindValueBased:
		if chosenValue < product.MinValueCents || (product.MaxValueCents > 0 && chosenValue > product.MaxValueCents) {
			return models.OrderItem{}, fmt.Errorf("%w: valor %s fora da faixa permitida", ErrInvalidChoice, FormatBRL(chosenValue))
		}
		unit = chosenValue
		item.ChosenValueCents = chosenValue
		free = product.FreeComplements
	default:
		unit = product.PriceCents
	}

	for i, c := range complements {
		if c.Kind != models.ComplementKindComplement {
			return models.OrderItem{}, fmt.Errorf("%w: %s não é um complemento", ErrInvalidChoice, c.Name)
		}
		if !c.IsActive {
			return models.OrderItem{}, fmt.Errorf("%w: %s", ErrProductUnavailable, c.Name)
		}

		complementID := c.ID
		charged := i >= free
		line := models.OrderItemComplement{
			ComplementID: &complementID,
			Name:         c.Name,
			PriceCents:   c.PriceCents,
			Charged:      charged,
		}
		if charged {
			unit += c.PriceCents
		}
		item.Complements = append(item.Complements, line)
	}

	item.UnitPriceCents = unit
	item.TotalCents = unit * int64(quantity)
	return item, nil
}

// nextOrderNumber gera números como ACAI-20240603-0007, sequenciais por dia da loja
func (s *OrderService) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := s.orders.CountCreatedSince(ctx, startOfDay)
	if err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}
	return fmt.Sprintf("ACAI-%s-%04d", now.Format("20060102"), count+1), nil
}

// GetForCustomer returns an order of the customer (tracking)
func (s *OrderService) GetForCustomer(ctx context.Context, customerID, id uuid.UUID) (*models.Order, error) {
	return s.orders.GetForCustomer(ctx, customerID, id)
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) (*models.PaginationResult[models.Order], error) {
	return s.orders.List(ctx, filter)
}

// UpdateStatus moves an order along the admin workflow
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, req.Status)
	}
	if req.Status == models.OrderStatusOutForDelivery && order.Fulfillment != models.FulfillmentDelivery ||
		req.Status == models.OrderStatusReadyForPickup && order.Fulfillment != models.FulfillmentPickup {
		return nil, ErrFulfillmentMismatch
	}

	reason := strings.TrimSpace(req.CancelReason)
	if req.Status == models.OrderStatusCancelled && reason == "" {
		return nil, ErrCancelReasonRequired
	}

	if err := s.setStatus(ctx, order, req.Status, reason); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelByCustomer cancels an order that the store has not confirmed yet
func (s *OrderService) CancelByCustomer(ctx context.Context, customerID, id uuid.UUID, reason string) (*models.Order, error) {
	order, err := s.orders.GetForCustomer(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Cancelado pelo cliente"
	}
	if err := s.setStatus(ctx, order, models.OrderStatusCancelled, reason); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) setStatus(ctx context.Context, order *models.Order, status, reason string) error {
	now := s.clock()
	if err := s.orders.UpdateStatus(ctx, order, status, reason, now); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	previous := order.Status
	order.Status = status
	switch status {
	case models.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	case models.OrderStatusCancelled:
		order.CancelledAt = &now
		order.CancelReason = reason
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("from", previous).
		Str("to", status).
		Msg("Status do pedido alterado")
	return nil
}

func textOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
