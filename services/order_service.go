package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/common/logger"
	"github.com/khushipatel79/e-commerce-BE/models"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

const defaultOrderNumberAttempts = 5

type OrderService interface {
	// Checkout turns the caller's cart into an order. A non-empty idempotencyKey makes
	// retries of the same request return the first order; replayed reports that case.
	Checkout(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest, idempotencyKey string) (order *models.Order, replayed bool, appErr *apperrors.Error)
	ListMyOrders(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.PageResult[models.Order], *apperrors.Error)
	GetOrder(ctx context.Context, actor Actor, idOrNumber string) (*models.Order, *apperrors.Error)
	ListAllOrders(ctx context.Context, page, limit int, status string) (*models.PageResult[models.Order], *apperrors.Error)
	UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, *apperrors.Error)
	CancelOrder(ctx context.Context, actor Actor, idOrNumber string) (*models.Order, *apperrors.Error)
}

type OrderConfig struct {
	IdempotencyTTL         time.Duration
	MaxOrderNumberAttempts int
}

type OrderDeps struct {
	Orders      repository.OrderRepository
	Carts       repository.CartRepository
	Products    repository.ProductRepository
	Users       repository.UserRepository
	Tx          repository.Transactor
	Idempotency repository.IdempotencyStore // optional
	Events      EventPublisher
	Metrics     aws_pkg.MetricsRecorder
}

type orderServiceImpl struct {
	OrderDeps
	cfg    OrderConfig
	logger *zap.Logger
	now    func() time.Time
	// randSuffix returns a number in [0, 9000) for the order number suffix.
	randSuffix func() (int64, error)
}

func NewOrderService(deps OrderDeps, cfg OrderConfig, logger *zap.Logger) OrderService {
	if cfg.MaxOrderNumberAttempts <= 0 {
		cfg.MaxOrderNumberAttempts = defaultOrderNumberAttempts
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	if deps.Tx == nil {
		deps.Tx = repository.NewSequentialTransactor()
	}
	if deps.Events == nil {
		deps.Events = NewNoopEventPublisher()
	}
	return &orderServiceImpl{
		OrderDeps:  deps,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		randSuffix: cryptoSuffix,
	}
}

func cryptoSuffix() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

func (s *orderServiceImpl) orderNumber() (string, error) {
	n, err := s.randSuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%d", s.now().UTC().Year(), 1000+n), nil
}

func (s *orderServiceImpl) count(ctx context.Context, metric string) {
	recordCount(ctx, s.Metrics, s.logger, metric)
}

// compensate undoes the applied steps of a failed non-transactional unit, newest first.
func (s *orderServiceImpl) compensate(ctx context.Context, undo []func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i](ctx); err != nil {
			s.logger.Error("compensation step failed",
				zap.Int("step", i),
				zap.Error(err),
				zap.String("request_id", logger.RequestID(ctx)),
			)
		}
	}
}

// run executes fn as one unit of work. Without a transactional store the steps fn
// registered through add are rolled back on failure.
func (s *orderServiceImpl) run(ctx context.Context, fn func(ctx context.Context, add func(func(context.Context) error)) error) error {
	var undo []func(context.Context) error
	err := s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		// a transaction may be retried from scratch
		undo = undo[:0]
		return fn(txCtx, func(step func(context.Context) error) { undo = append(undo, step) })
	})
	if err != nil && !s.Tx.Atomic() {
		s.compensate(ctx, undo)
	}
	return err
}

func (s *orderServiceImpl) Checkout(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest, idempotencyKey string) (*models.Order, bool, *apperrors.Error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" || s.Idempotency == nil {
		order, appErr := s.checkout(ctx, userID, req)
		return order, false, appErr
	}

	key := userID.Hex() + ":" + idempotencyKey
	existing, claimed, err := s.Idempotency.Claim(ctx, key, s.cfg.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, checking out without it", zap.Error(err))
		order, appErr := s.checkout(ctx, userID, req)
		return order, false, appErr
	}
	if !claimed {
		if existing == repository.PendingValue {
			return nil, false, apperrors.Conflict("A checkout with this Idempotency-Key is already in progress")
		}
		orderID, perr := primitive.ObjectIDFromHex(existing)
		if perr != nil {
			return nil, false, apperrors.Conflict("Idempotency-Key was already used")
		}
		order, err := s.Orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, false, internalError(ctx, s.logger, "Failed to load order for idempotent replay", err)
		}
		return order, true, nil
	}

	order, appErr := s.checkout(ctx, userID, req)
	bg := context.WithoutCancel(ctx)
	if appErr != nil {
		if err := s.Idempotency.Release(bg, key); err != nil {
			s.logger.Warn("failed to release idempotency key", zap.Error(err))
		}
		return nil, false, appErr
	}
	if err := s.Idempotency.Complete(bg, key, order.ID.Hex(), s.cfg.IdempotencyTTL); err != nil {
		s.logger.Warn("failed to store idempotency result", zap.Error(err))
	}
	return order, false, nil
}

func (s *orderServiceImpl) resolveShipping(user *models.User, req *models.CheckoutRequest) (*models.ShippingAddress, *apperrors.Error) {
	var addr models.ShippingAddress
	switch {
	case req.ShippingAddress != nil:
		addr = *req.ShippingAddress
	case user.DefaultAddress() != nil:
		saved := user.DefaultAddress()
		addr = models.ShippingAddress{
			Street:  saved.Street,
			City:    saved.City,
			State:   saved.State,
			Zip:     saved.Zip,
			Country: saved.Country,
			Phone:   saved.Phone,
		}
	default:
		return nil, apperrors.Validation("Shipping address is required")
	}
	if addr.Phone == "" {
		addr.Phone = user.Phone
	}
	return &addr, nil
}

func (s *orderServiceImpl) checkout(ctx context.Context, userID primitive.ObjectID, req *models.CheckoutRequest) (*models.Order, *apperrors.Error) {
	paymentMethod := req.PaymentMethod
	if paymentMethod != models.PaymentMethodCOD && paymentMethod != models.PaymentMethodCard {
		return nil, apperrors.Validation("Invalid payment method")
	}

	cart, err := s.Carts.FindByUser(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, internalError(ctx, s.logger, "Failed to load cart", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperrors.InvalidState(apperrors.MsgEmptyCart)
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load user", err)
	}
	shipping, appErr := s.resolveShipping(user, req)
	if appErr != nil {
		return nil, appErr
	}

	// quantities per product, in cart order, so variants of one product share its stock
	var productIDs []primitive.ObjectID
	needed := map[primitive.ObjectID]int{}
	for _, it := range cart.Items {
		if _, ok := needed[it.Product]; !ok {
			productIDs = append(productIDs, it.Product)
			needed[it.Product] = cart.QuantityOf(it.Product)
		}
	}

	products, err := s.Products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load cart products", err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, pid := range productIDs {
		p, ok := byID[pid]
		if !ok || !p.IsActive {
			return nil, apperrors.InvalidState("Product is no longer available: " + pid.Hex())
		}
		if p.Stock < needed[pid] {
			s.count(ctx, aws_pkg.MetricCheckoutFailed)
			return nil, apperrors.InvalidState("Insufficient stock for product: " + p.Title)
		}
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, models.OrderItem{
			Product:       it.Product,
			Title:         byID[it.Product].Title,
			Quantity:      it.Quantity,
			Price:         it.Price,
			SelectedColor: it.SelectedColor,
			SelectedSize:  it.SelectedSize,
		})
	}
	cart.Recalculate()

	for attempt := 1; attempt <= s.cfg.MaxOrderNumberAttempts; attempt++ {
		number, err := s.orderNumber()
		if err != nil {
			return nil, internalError(ctx, s.logger, "Failed to generate order number", err)
		}
		order := &models.Order{
			User:            userID,
			Items:           items,
			ShippingAddress: *shipping,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			OrderStatus:     models.OrderStatusPending,
			TotalPrice:      cart.TotalPrice,
			OrderNumber:     number,
		}

		var short primitive.ObjectID
		err = s.run(ctx, func(txCtx context.Context, add func(func(context.Context) error)) error {
			for _, pid := range productIDs {
				pid, qty := pid, needed[pid]
				if err := s.Products.DecrementStock(txCtx, pid, qty); err != nil {
					short = pid
					return err
				}
				add(func(c context.Context) error { return s.Products.IncrementStock(c, pid, qty) })
			}

			order.ID = primitive.NilObjectID
			if err := s.Orders.Create(txCtx, order); err != nil {
				return err
			}
			orderID := order.ID
			add(func(c context.Context) error { return s.Orders.Delete(c, orderID) })

			if err := s.Carts.Clear(txCtx, userID); err != nil {
				return err
			}
			snapshot := *cart
			add(func(c context.Context) error { return s.Carts.Save(c, &snapshot) })
			return nil
		})

		switch {
		case err == nil:
			s.logger.Info("Order placed",
				zap.String("order_number", order.OrderNumber),
				zap.String("user_id", userID.Hex()),
				zap.Float64("total_price", order.TotalPrice),
				zap.Int("attempt", attempt),
			)
			s.count(ctx, aws_pkg.MetricOrdersCreated)
			s.count(ctx, aws_pkg.MetricCartCheckouts)
			publishDetached(ctx, s.Events, models.Event{
				EventType:   models.EventOrderCreated,
				OrderID:     order.ID.Hex(),
				OrderNumber: order.OrderNumber,
				UserID:      userID.Hex(),
				Email:       user.Email,
				Status:      order.OrderStatus,
				TotalPrice:  order.TotalPrice,
				OccurredAt:  s.now().UTC(),
			})
			return order, nil
		case isDuplicate(err):
			s.logger.Warn("Order number collision, retrying",
				zap.String("order_number", number),
				zap.Int("attempt", attempt),
			)
			continue
		case errors.Is(err, repository.ErrInsufficientStock):
			s.count(ctx, aws_pkg.MetricCheckoutFailed)
			title := short.Hex()
			if p, ok := byID[short]; ok {
				title = p.Title
			}
			return nil, apperrors.InvalidState("Insufficient stock for product: " + title)
		default:
			s.count(ctx, aws_pkg.MetricCheckoutFailed)
			return nil, internalError(ctx, s.logger, "Failed to place order", err)
		}
	}

	s.count(ctx, aws_pkg.MetricCheckoutFailed)
	return nil, apperrors.Conflict("Could not allocate a unique order number, please retry")
}

func (s *orderServiceImpl) ListMyOrders(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.PageResult[models.Order], *apperrors.Error) {
	p := models.Pagination{}
	p.Page, p.Limit = clampPagination(page, limit)

	orders, total, err := s.Orders.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list orders", err)
	}
	return models.NewPageResult(orders, p, total), nil
}

// findOrder looks an order up by store id or by order number.
func (s *orderServiceImpl) findOrder(ctx context.Context, idOrNumber string) (*models.Order, *apperrors.Error) {
	var (
		order *models.Order
		err   error
	)
	if id, perr := primitive.ObjectIDFromHex(idOrNumber); perr == nil {
		order, err = s.Orders.FindByID(ctx, id)
	} else {
		order, err = s.Orders.FindByOrderNumber(ctx, idOrNumber)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load order", err)
	}
	return order, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, actor Actor, idOrNumber string) (*models.Order, *apperrors.Error) {
	order, appErr := s.findOrder(ctx, idOrNumber)
	if appErr != nil {
		return nil, appErr
	}
	if order.User != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.Forbidden(apperrors.MsgNotOwner)
	}
	return order, nil
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

func (s *orderServiceImpl) ListAllOrders(ctx context.Context, page, limit int, status string) (*models.PageResult[models.Order], *apperrors.Error) {
	if status != "" && !validOrderStatus(status) {
		return nil, apperrors.Validation("Invalid order status")
	}
	p := models.Pagination{}
	p.Page, p.Limit = clampPagination(page, limit)

	orders, total, err := s.Orders.List(ctx, status, p)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list orders", err)
	}
	return models.NewPageResult(orders, p, total), nil
}

// transition moves order from its current status; cancellations put the stock back in
// the same unit of work. The status write is conditional, so a concurrent transition
// surfaces as repository.ErrConflict and stock is restored at most once.
func (s *orderServiceImpl) transition(ctx context.Context, order *models.Order, change models.OrderStatusChange) (*models.Order, error) {
	var updated *models.Order
	err := s.run(ctx, func(txCtx context.Context, add func(func(context.Context) error)) error {
		o, err := s.Orders.UpdateStatus(txCtx, order.ID, change)
		if err != nil {
			return err
		}
		updated = o
		add(func(c context.Context) error {
			_, err := s.Orders.UpdateStatus(c, order.ID, models.OrderStatusChange{
				From:          change.To,
				To:            change.From,
				PaymentStatus: order.PaymentStatus,
			})
			return err
		})

		if change.To != models.OrderStatusCancelled {
			return nil
		}
		for _, it := range order.Items {
			pid, qty := it.Product, it.Quantity
			if err := s.Products.IncrementStock(txCtx, pid, qty); err != nil {
				return err
			}
			add(func(c context.Context) error { return s.Products.DecrementStock(c, pid, qty) })
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *orderServiceImpl) afterTransition(ctx context.Context, order *models.Order) {
	eventType := models.EventOrderStatusUpdated
	if order.OrderStatus == models.OrderStatusCancelled {
		eventType = models.EventOrderCancelled
		s.count(ctx, aws_pkg.MetricOrdersCancelled)
	}
	s.logger.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.OrderStatus),
	)
	publishDetached(ctx, s.Events, models.Event{
		EventType:   eventType,
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.User.Hex(),
		Status:      order.OrderStatus,
		TotalPrice:  order.TotalPrice,
		OccurredAt:  s.now().UTC(),
	})
}

func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, *apperrors.Error) {
	orderID, appErr := parseID(id, "order")
	if appErr != nil {
		return nil, appErr
	}
	if !validOrderStatus(status) {
		return nil, apperrors.Validation("Invalid order status")
	}
	order, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load order", err)
	}

	if order.OrderStatus == status {
		return order, nil
	}
	if models.IsTerminalStatus(order.OrderStatus) {
		return nil, apperrors.InvalidState(fmt.Sprintf("Cannot change the status of a %s order", strings.ToLower(order.OrderStatus)))
	}

	change := models.OrderStatusChange{From: order.OrderStatus, To: status}
	if status == models.OrderStatusDelivered && order.PaymentMethod == models.PaymentMethodCOD {
		change.PaymentStatus = models.PaymentStatusPaid
	}
	updated, err := s.transition(ctx, order, change)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Conflict("Order was updated concurrently, please retry")
		}
		return nil, internalError(ctx, s.logger, "Failed to update order status", err)
	}
	s.afterTransition(ctx, updated)
	return updated, nil
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, actor Actor, idOrNumber string) (*models.Order, *apperrors.Error) {
	order, appErr := s.findOrder(ctx, idOrNumber)
	if appErr != nil {
		return nil, appErr
	}
	if order.User != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.Forbidden(apperrors.MsgNotOwner)
	}

	switch {
	case order.OrderStatus == models.OrderStatusCancelled:
		return order, nil
	case order.OrderStatus == models.OrderStatusDelivered:
		return nil, apperrors.InvalidState("Delivered orders cannot be cancelled")
	case order.OrderStatus != models.OrderStatusPending && !actor.IsAdmin():
		return nil, apperrors.InvalidState("Only pending orders can be cancelled")
	}

	updated, err := s.transition(ctx, order, models.OrderStatusChange{
		From: order.OrderStatus,
		To:   models.OrderStatusCancelled,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// lost a race; report whatever state won
			current, ferr := s.Orders.FindByID(ctx, order.ID)
			if ferr == nil && current.OrderStatus == models.OrderStatusCancelled {
				return current, nil
			}
			return nil, apperrors.Conflict("Order was updated concurrently, please retry")
		}
		return nil, internalError(ctx, s.logger, "Failed to cancel order", err)
	}
	s.afterTransition(ctx, updated)
	return updated, nil
}
