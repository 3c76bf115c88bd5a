package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/sahaaya/sahaaya_server/config"
	"github.com/sahaaya/sahaaya_server/internal/model"
	"github.com/sahaaya/sahaaya_server/internal/model/dto"
	"github.com/sahaaya/sahaaya_server/internal/pkg/invoice"
	"github.com/sahaaya/sahaaya_server/internal/pkg/oss"
	"github.com/sahaaya/sahaaya_server/internal/pkg/payment"
	"github.com/sahaaya/sahaaya_server/internal/pkg/queue"
	"github.com/sahaaya/sahaaya_server/internal/pkg/ws"
	"github.com/sahaaya/sahaaya_server/internal/repository"
)

var (
	ErrFreePlanNotPayable   = errors.New("free plan does not require payment")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotYourTransaction   = errors.New("transaction does not belong to caller")
	ErrAlreadyProcessed     = errors.New("transaction already processed")
	ErrSignatureMismatch    = errors.New("payment signature mismatch")
	ErrOrderMismatch        = errors.New("order does not match transaction")
	ErrTestModeOnly         = errors.New("only available in test mode")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
)

// BillingService runs the checkout saga: create a gateway order and a pending
// ledger entry, then on verified payment activate the subscription. All writes
// for one NGO serialize through a per-user mutex plus a DB transaction, so two
// concurrent verifications cannot interleave on the shared subscription slot.
type BillingService struct {
	db         *gorm.DB
	txnRepo    *repository.TransactionRepository
	planRepo   *repository.PlanRepository
	userRepo   *repository.UserRepository
	subService *SubscriptionService
	gateway    payment.Gateway
	notifier   *Notifier
	hub        *ws.Hub
	ossClient  *oss.Client
	cfg        *config.Config

	mu    sync.Mutex
	locks map[int64]*userLock
}

// userLock is one per-NGO serialization point. refs counts holders plus
// waiters so the map entry can be dropped once nobody needs it.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewBillingService(
	db *gorm.DB,
	txnRepo *repository.TransactionRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	subService *SubscriptionService,
	gateway payment.Gateway,
	notifier *Notifier,
	hub *ws.Hub,
	ossClient *oss.Client,
	cfg *config.Config,
) *BillingService {
	return &BillingService{
		db:         db,
		txnRepo:    txnRepo,
		planRepo:   planRepo,
		userRepo:   userRepo,
		subService: subService,
		gateway:    gateway,
		notifier:   notifier,
		hub:        hub,
		ossClient:  ossClient,
		cfg:        cfg,
		locks:      make(map[int64]*userLock),
	}
}

// lockUser serializes billing mutations per NGO. The returned func releases
// the lock and evicts the map entry when the last holder lets go.
func (s *BillingService) lockUser(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// CreateOrder is step 1 of the saga: validate the plan, compute the invoice,
// create the gateway order and persist the pending ledger entry carrying the
// immutable plan snapshot.
func (s *BillingService) CreateOrder(ctx context.Context, userID int64, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	plan, err := s.planRepo.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}
	if plan.Tier == model.TierFree {
		return nil, ErrFreePlanNotPayable
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subtotal := invoice.Round2(plan.PriceFor(req.BillingCycle))
	gst := invoice.GST(subtotal, s.cfg.Billing.GSTRate)
	total := invoice.Round2(subtotal + gst)
	amountPaise := invoice.Paise(total)

	receipt := fmt.Sprintf("sub_%d_%d", userID, time.Now().Unix())
	order, err := s.gateway.CreateOrder(ctx, amountPaise, s.cfg.Payment.Currency, receipt, map[string]string{
		"plan":          plan.Name,
		"billing_cycle": req.BillingCycle,
	})
	if err != nil {
		log.Printf("Gateway order creation failed for user %d: %v", userID, err)
		return nil, ErrGatewayUnavailable
	}

	txnType := model.TxnTypeSubscription
	if user.SubscriptionID != nil {
		txnType = model.TxnTypeUpgrade
	}

	txn := &model.Transaction{
		UserID:         userID,
		Type:           txnType,
		Amount:         subtotal,
		Currency:       s.cfg.Payment.Currency,
		GatewayOrderID: order.ID,
		Status:         model.TxnStatusPending,
		PlanTier:       plan.Tier,
		PlanName:       plan.Name,
		BillingCycle:   req.BillingCycle,
		Subtotal:       subtotal,
		GSTAmount:      gst,
		Total:          total,
		InvoiceNumber:  invoice.NewNumber(time.Now()),
	}
	if err := s.txnRepo.Create(txn); err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		TransactionID: txn.ID,
		OrderID:       order.ID,
		AmountPaise:   amountPaise,
		Currency:      s.cfg.Payment.Currency,
		KeyID:         s.cfg.Payment.KeyID,
		Subtotal:      subtotal,
		GSTAmount:     gst,
		Total:         total,
	}, nil
}

// VerifyAndActivate is step 2: check the HMAC proof, complete the ledger entry
// and create-or-reuse the subscription, all under the per-user lock and one DB
// transaction. Side effects (invoice upload, receipt mail, ws push) run after
// commit and are best-effort.
func (s *BillingService) VerifyAndActivate(ctx context.Context, userID int64, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	txn, err := s.txnRepo.GetByID(req.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrNotYourTransaction
	}
	if txn.Status != model.TxnStatusPending {
		return nil, ErrAlreadyProcessed
	}
	if txn.GatewayOrderID != req.GatewayOrderID {
		return nil, ErrOrderMismatch
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		return nil, ErrSignatureMismatch
	}

	plan, err := s.planRepo.GetByTier(txn.PlanTier)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	periodEndAt := periodEnd(now, txn.BillingCycle)

	var sub *model.Subscription
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		sub, txErr = s.subService.CreateOrReuseTx(tx, user, plan, txn.BillingCycle, false, now)
		if txErr != nil {
			return txErr
		}

		if !model.CanTransition(txn.Status, model.TxnStatusCompleted) {
			return ErrAlreadyProcessed
		}
		txn.Status = model.TxnStatusCompleted
		txn.GatewayPaymentID = &req.GatewayPaymentID
		txn.GatewaySignature = &req.GatewaySignature
		txn.SubscriptionID = &sub.ID
		txn.PeriodStart = &now
		txn.PeriodEnd = &periodEndAt
		return s.txnRepo.WithTx(tx).Update(txn)
	})
	if err != nil {
		return nil, err
	}

	s.finishPayment(user, txn, plan)

	return &dto.VerifyPaymentResponse{
		Transaction:  txn,
		Subscription: sub,
		Plan:         plan,
	}, nil
}

// finishPayment runs the post-commit side effects. None of them can fail the
// already-committed payment.
func (s *BillingService) finishPayment(user *model.User, txn *model.Transaction, plan *model.Plan) {
	if s.ossClient != nil {
		details := &invoice.Details{
			Number:       txn.InvoiceNumber,
			IssuedAt:     time.Now(),
			BuyerName:    user.Name,
			BuyerEmail:   user.Email,
			PlanName:     txn.PlanName,
			BillingCycle: txn.BillingCycle,
			Currency:     txn.Currency,
			Subtotal:     txn.Subtotal,
			GSTRate:      s.cfg.Billing.GSTRate,
			GSTAmount:    txn.GSTAmount,
			Total:        txn.Total,
		}
		url, err := s.ossClient.UploadInvoice(user.ID, txn.InvoiceNumber, invoice.RenderHTML(details))
		if err != nil {
			log.Printf("Invoice upload failed for transaction %d: %v", txn.ID, err)
		} else {
			txn.InvoiceURL = url
			if err := s.txnRepo.UpdateFields(txn.ID, map[string]interface{}{"invoice_url": url}); err != nil {
				log.Printf("Failed to store invoice URL for transaction %d: %v", txn.ID, err)
			}
		}
	}

	s.notifier.Notify(&queue.NotificationJob{
		Kind:      queue.KindPaymentReceipt,
		Recipient: user.Email,
		Name:      user.Name,
		Payload: map[string]string{
			"plan_name":      plan.Name,
			"invoice_number": txn.InvoiceNumber,
			"total":          fmt.Sprintf("%.2f", txn.Total),
			"invoice_url":    txn.InvoiceURL,
		},
	})

	if s.hub != nil {
		s.hub.SendToUser(user.ID, &ws.Message{
			Type: ws.EventPaymentCompleted,
			Data: map[string]interface{}{
				"transaction_id": txn.ID,
				"plan":           plan.Name,
				"total":          txn.Total,
			},
		})
	}
}

// ReportFailure is step 3: the caller reports a failed/abandoned checkout and
// the pending entry is closed out. A new order must be created to retry.
func (s *BillingService) ReportFailure(userID, transactionID int64, reason string) (*model.Transaction, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	txn, err := s.txnRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrNotYourTransaction
	}
	if !model.CanTransition(txn.Status, model.TxnStatusFailed) {
		return nil, ErrAlreadyProcessed
	}

	if reason == "" {
		reason = "payment failed"
	}
	txn.Status = model.TxnStatusFailed
	txn.FailureReason = reason
	if err := s.txnRepo.Update(txn); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, &ws.Message{
			Type: ws.EventPaymentFailed,
			Data: map[string]interface{}{
				"transaction_id": txn.ID,
				"reason":         reason,
			},
		})
	}

	return txn, nil
}

// TestComplete fabricates matching gateway credentials for a pending order.
// Only works in test mode with the simulated gateway wired in.
func (s *BillingService) TestComplete(userID, transactionID int64) (*dto.TestCompleteResponse, error) {
	if s.cfg.Payment.Mode != "test" {
		return nil, ErrTestModeOnly
	}
	sim, ok := s.gateway.(*payment.SimulatedGateway)
	if !ok {
		return nil, ErrTestModeOnly
	}

	txn, err := s.txnRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrNotYourTransaction
	}
	if txn.Status != model.TxnStatusPending {
		return nil, ErrAlreadyProcessed
	}

	paymentID, signature := sim.IssuePayment(txn.GatewayOrderID)
	return &dto.TestCompleteResponse{
		TransactionID:    txn.ID,
		GatewayOrderID:   txn.GatewayOrderID,
		GatewayPaymentID: paymentID,
		GatewaySignature: signature,
	}, nil
}

// ListTransactions returns the caller's ledger entries, newest first.
func (s *BillingService) ListTransactions(userID int64) ([]model.Transaction, error) {
	return s.txnRepo.ListByUser(userID)
}

// ExpirePending fails pending transactions older than the cutoff. Called by
// the sweep for checkouts whose verification never arrived.
func (s *BillingService) ExpirePending(cutoff time.Time) (int, error) {
	stale, err := s.txnRepo.ListPendingOlderThan(cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		txn := &stale[i]
		err := s.txnRepo.UpdateFields(txn.ID, map[string]interface{}{
			"status":         model.TxnStatusFailed,
			"failure_reason": "payment window expired",
		})
		if err != nil {
			return expired, err
		}
		expired++
	}

	return expired, nil
}
