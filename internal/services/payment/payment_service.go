package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"healthtrack_backend/internal/config"
	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/email"
	"healthtrack_backend/internal/logger"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Webhook event types we treat as terminal charge outcomes. Anything else
// is acknowledged and ignored.
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// WebhookEvent is the parsed gateway notification.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

// Service owns the payment transaction lifecycle: initiation, webhook
// processing, client-side verification and stale-payment reconciliation.
// The webhook and verify paths converge through one shared transition
// primitive, so concurrent delivery is safe without locks.
type Service struct {
	txRepo   repositories.TransactionRepository
	userRepo repositories.UserRepository
	gateway  Gateway
	mailer   email.Provider
}

func NewService(
	txRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	gateway Gateway,
	mailer email.Provider,
) *Service {
	return &Service{
		txRepo:   txRepo,
		userRepo: userRepo,
		gateway:  gateway,
		mailer:   mailer,
	}
}

// Initiate creates a pending transaction and asks the gateway for a
// checkout redirect URL. The pending row is persisted BEFORE the gateway
// call, so a crash mid-flight still leaves a traceable record.
func (s *Service) Initiate(ctx context.Context, db *gorm.DB, userID string, req *dto.InitiatePaymentRequest) (*dto.InitiatePaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidPaymentAmount
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("User not authenticated")
		}
		return nil, apperrors.InternalError(err)
	}

	payerEmail := req.Email
	if payerEmail == "" {
		payerEmail = user.Email
	}

	cfg := config.GetConfig()
	currency := req.Currency
	if currency == "" {
		currency = cfg.Payment.Currency
	}

	reference, err := GenerateReference(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := &models.Transaction{
		UserID:    userID,
		Reference: reference,
		Amount:    req.Amount,
		Currency:  currency,
		Status:    models.TransactionStatusPending,
	}
	if err := s.txRepo.Create(db, tx); err != nil {
		return nil, apperrors.InternalError(err)
	}

	result, err := s.gateway.Initialize(ctx, InitializeRequest{
		Amount:      req.Amount,
		Currency:    currency,
		Email:       payerEmail,
		Reference:   reference,
		CallbackURL: cfg.Paystack.CallbackURL,
	})
	if err != nil {
		return nil, s.handleInitializeError(ctx, db, reference, err)
	}

	logger.CtxInfo(ctx, "payment initiated",
		"reference", reference,
		"amount", req.Amount,
		"currency", currency,
	)

	return &dto.InitiatePaymentResponse{
		RedirectURL: result.RedirectURL,
		Reference:   reference,
	}, nil
}

// handleInitializeError applies the initiation failure policy: definitive
// gateway rejections mark the row failed so it is never silently orphaned;
// an unavailable gateway leaves it pending for the webhook, a later verify
// or the reconciliation worker to resolve.
func (s *Service) handleInitializeError(ctx context.Context, db *gorm.DB, reference string, err error) error {
	switch {
	case errors.Is(err, ErrGatewayRejected), errors.Is(err, ErrGatewayAuthError):
		if _, markErr := s.txRepo.MarkTerminal(db, reference, models.TransactionStatusFailed, "", nil); markErr != nil {
			logger.CtxWithError(ctx, "failed to mark rejected transaction as failed", markErr, "reference", reference)
		}
		logger.CtxWarn(ctx, "payment initiation rejected by gateway", "reference", reference, "error", err.Error())
		return apperrors.ErrGatewayRejected
	case errors.Is(err, ErrGatewayUnavailable):
		// A timeout is not a failure signal; the transaction stays pending.
		logger.CtxWarn(ctx, "payment gateway unavailable during initiation", "reference", reference, "error", err.Error())
		return apperrors.ErrGatewayUnavailable
	default:
		return apperrors.InternalError(err)
	}
}

// HandleWebhook applies a gateway notification idempotently. It is safe
// under at-least-once delivery and under arbitrary interleaving with the
// verify path. A non-nil return means "transient internal failure, let the
// gateway retry"; every benign outcome returns nil.
func (s *Service) HandleWebhook(ctx context.Context, db *gorm.DB, event *WebhookEvent) error {
	var status models.TransactionStatus
	switch event.Event {
	case EventChargeSuccess:
		status = models.TransactionStatusSuccess
	case EventChargeFailed:
		status = models.TransactionStatusFailed
	default:
		// Not a terminal charge outcome: acknowledge and ignore.
		logger.CtxDebug(ctx, "ignoring non-terminal webhook event", "event", event.Event)
		return nil
	}

	tx, err := s.txRepo.FindByReference(db, event.Data.Reference)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			// Forged webhook or a race with initiation. Non-fatal: a 500
			// here would only cause a gateway retry storm.
			logger.CtxWarn(ctx, "webhook for unknown transaction reference",
				"reference", event.Data.Reference,
				"event", event.Event,
			)
			return nil
		}
		return err
	}

	s.checkGatewayFigures(ctx, tx, event.Data.Amount, event.Data.Currency)

	gatewayRef := ""
	if event.Data.ID != 0 {
		gatewayRef = fmt.Sprintf("%d", event.Data.ID)
	}

	_, err = s.applyTerminal(ctx, db, event.Data.Reference, status, gatewayRef, parsePaidAt(event.Data.PaidAt))
	return err
}

// Verify is the client-initiated convergence path. The caller must own the
// transaction. Terminal transactions are answered from the store; pending
// ones are checked against the gateway and resolved through the same apply
// primitive as the webhook.
func (s *Service) Verify(ctx context.Context, db *gorm.DB, userID, reference string) (*dto.VerifyPaymentResponse, error) {
	tx, err := s.txRepo.FindByReference(db, reference)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if tx.UserID != userID {
		return nil, apperrors.ErrTransactionAccessDenied
	}

	// Terminal states are immutable; re-verifying is a benign no-op.
	if tx.Status.IsTerminal() {
		return &dto.VerifyPaymentResponse{
			Verified: tx.Status == models.TransactionStatusSuccess,
			Status:   string(tx.Status),
		}, nil
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		switch {
		case errors.Is(err, ErrGatewayUnavailable):
			return nil, apperrors.ErrGatewayUnavailable
		case errors.Is(err, ErrGatewayRejected), errors.Is(err, ErrGatewayAuthError):
			return nil, apperrors.ErrGatewayRejected
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	if result.Status == GatewayStatusPending {
		return &dto.VerifyPaymentResponse{Verified: false, Status: string(models.TransactionStatusPending)}, nil
	}

	s.checkGatewayFigures(ctx, tx, result.Amount, result.Currency)

	finalStatus, err := s.applyTerminal(ctx, db, reference, toTransactionStatus(result.Status), result.GatewayRef, parsePaidAt(result.PaidAt))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.VerifyPaymentResponse{
		Verified: finalStatus == models.TransactionStatusSuccess,
		Status:   string(finalStatus),
	}, nil
}

// History returns the caller's transactions, newest first.
func (s *Service) History(db *gorm.DB, userID string) ([]dto.TransactionResponse, error) {
	txs, err := s.txRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.TransactionResponse{
			ID:         tx.ID,
			Reference:  tx.Reference,
			Amount:     tx.Amount,
			Currency:   tx.Currency,
			Status:     string(tx.Status),
			GatewayRef: tx.GatewayRef,
			PaidAt:     tx.PaidAt,
			CreatedAt:  tx.CreatedAt,
		})
	}
	return out, nil
}

// ReconcilePending re-verifies pending transactions older than the cutoff
// through the gateway. Used by the background worker to converge payments
// whose webhook never arrived.
func (s *Service) ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (int, error) {
	txs, err := s.txRepo.FindStalePending(db, olderThan, limit)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, tx := range txs {
		result, err := s.gateway.Verify(ctx, tx.Reference)
		if err != nil {
			logger.CtxWarn(ctx, "reconcile: gateway verify failed",
				"reference", tx.Reference,
				"error", err.Error(),
			)
			continue
		}
		if result.Status == GatewayStatusPending {
			continue
		}

		s.checkGatewayFigures(ctx, &tx, result.Amount, result.Currency)

		if _, err := s.applyTerminal(ctx, db, tx.Reference, toTransactionStatus(result.Status), result.GatewayRef, parsePaidAt(result.PaidAt)); err != nil {
			logger.CtxWithError(ctx, "reconcile: failed to apply status", err, "reference", tx.Reference)
			continue
		}
		resolved++
	}
	return resolved, nil
}

// applyTerminal is the single shared pending -> terminal transition, invoked
// from the webhook, verify and reconcile paths so their semantics cannot
// diverge. The store-level conditional update guarantees the transition is
// applied at most once; side effects fire only on the applying call.
func (s *Service) applyTerminal(ctx context.Context, db *gorm.DB, reference string, status models.TransactionStatus, gatewayRef string, paidAt *time.Time) (models.TransactionStatus, error) {
	applied, err := s.txRepo.MarkTerminal(db, reference, status, gatewayRef, paidAt)
	if err != nil {
		return "", err
	}

	if !applied {
		// Already terminal: the other convergence path won the race. Read
		// back the final state; entitlement side effects must not re-fire.
		tx, err := s.txRepo.FindByReference(db, reference)
		if err != nil {
			return "", err
		}
		logger.CtxDebug(ctx, "transaction already finalized", "reference", reference, "status", tx.Status)
		return tx.Status, nil
	}

	logger.CtxInfo(ctx, "transaction finalized", "reference", reference, "status", status)

	if status == models.TransactionStatusSuccess {
		s.upgradeEntitlement(ctx, db, reference)
	}
	return status, nil
}

// upgradeEntitlement flips the payer's premium flag and sends a receipt.
// Both are best-effort: the transaction's success status is the source of
// truth, and entitlement can be reconciled out-of-band if this write fails.
func (s *Service) upgradeEntitlement(ctx context.Context, db *gorm.DB, reference string) {
	tx, err := s.txRepo.FindByReference(db, reference)
	if err != nil {
		logger.CtxWithError(ctx, "entitlement: failed to load transaction", err, "reference", reference)
		return
	}

	if err := s.userRepo.SetPremium(db, tx.UserID); err != nil {
		logger.CtxWithError(ctx, "entitlement: failed to set premium flag", err,
			"reference", reference,
			"user_id", tx.UserID,
		)
		return
	}
	logger.CtxInfo(ctx, "user upgraded to premium", "user_id", tx.UserID, "reference", reference)

	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.FindByID(db, tx.UserID)
	if err != nil {
		return
	}
	receipt := &email.Email{
		To:      []string{user.Email},
		Subject: "Your HealthTrack premium payment was received",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe received your payment of %d %s (reference %s). Premium health advice is now active on your account.\n\nThe HealthTrack team",
			user.Name, tx.Amount, tx.Currency, tx.Reference,
		),
	}
	if err := s.mailer.Send(receipt); err != nil {
		logger.CtxWarn(ctx, "failed to send payment receipt email", "user_id", tx.UserID, "error", err.Error())
	}
}

// checkGatewayFigures logs when the gateway reports a different amount or
// currency than the row we created. The transition still applies (the
// gateway's terminal status is authoritative), but the anomaly must not pass
// silently: it signals tampering or a gateway-side misconfiguration.
func (s *Service) checkGatewayFigures(ctx context.Context, tx *models.Transaction, amount int64, currency string) {
	if !gatewayFiguresMismatch(tx, amount, currency) {
		return
	}
	logger.CtxWarn(ctx, "gateway-reported amount/currency differs from stored transaction",
		"reference", tx.Reference,
		"stored_amount", tx.Amount,
		"gateway_amount", amount,
		"stored_currency", tx.Currency,
		"gateway_currency", currency,
	)
}

// gatewayFiguresMismatch reports whether the gateway-reported figures
// contradict the stored row. Zero values mean the gateway omitted the field.
func gatewayFiguresMismatch(tx *models.Transaction, amount int64, currency string) bool {
	if amount != 0 && amount != tx.Amount {
		return true
	}
	if currency != "" && !strings.EqualFold(currency, tx.Currency) {
		return true
	}
	return false
}

func toTransactionStatus(status GatewayStatus) models.TransactionStatus {
	if status == GatewayStatusSuccess {
		return models.TransactionStatusSuccess
	}
	return models.TransactionStatusFailed
}

func parsePaidAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}
