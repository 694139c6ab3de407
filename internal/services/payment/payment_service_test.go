package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"healthtrack_backend/internal/config"
	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/email"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ============================================
// In-memory fakes
// ============================================

type fakeTxRepo struct {
	mu  sync.Mutex
	txs map[string]*models.Transaction
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: make(map[string]*models.Transaction)}
}

func (r *fakeTxRepo) Create(_ *gorm.DB, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == "" {
		tx.ID = tx.Reference
	}
	tx.CreatedAt = time.Now()
	cp := *tx
	r.txs[tx.Reference] = &cp
	return nil
}

func (r *fakeTxRepo) FindByReference(_ *gorm.DB, reference string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[reference]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTxRepo) FindByUser(_ *gorm.DB, userID string) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

// MarkTerminal mirrors the conditional-update semantics of the real store:
// the transition applies only if the row is still pending.
func (r *fakeTxRepo) MarkTerminal(_ *gorm.DB, reference string, status models.TransactionStatus, gatewayRef string, paidAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[reference]
	if !ok || tx.Status != models.TransactionStatusPending {
		return false, nil
	}
	tx.Status = status
	if gatewayRef != "" {
		tx.GatewayRef = gatewayRef
	}
	if paidAt != nil {
		tx.PaidAt = paidAt
	}
	return true, nil
}

func (r *fakeTxRepo) FindStalePending(_ *gorm.DB, olderThan time.Time, limit int) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, tx := range r.txs {
		if tx.Status == models.TransactionStatusPending && tx.CreatedAt.Before(olderThan) {
			out = append(out, *tx)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu              sync.Mutex
	users           map[string]*models.User
	setPremiumCalls int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, emailAddr string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == emailAddr {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SetPremium(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsPremium = true
	r.setPremiumCalls++
	return nil
}

type fakeGateway struct {
	mu          sync.Mutex
	initResult  *InitializeResult
	initErr     error
	verifyMap   map[string]*VerifyResult
	verifyErr   error
	verifyCalls int
}

func (g *fakeGateway) Initialize(_ context.Context, _ InitializeRequest) (*InitializeResult, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	if g.initResult != nil {
		return g.initResult, nil
	}
	return &InitializeResult{RedirectURL: "https://checkout.test/redirect"}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (*VerifyResult, error) {
	g.mu.Lock()
	g.verifyCalls++
	g.mu.Unlock()
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if res, ok := g.verifyMap[reference]; ok {
		return res, nil
	}
	return &VerifyResult{Status: GatewayStatusPending}, nil
}

func (g *fakeGateway) VerifyWebhookSignature(_ []byte, _ string) bool { return true }

type recordingMailer struct {
	mu   sync.Mutex
	sent []*email.Email
}

func (m *recordingMailer) Send(e *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// ============================================
// Test fixture
// ============================================

const testUserID = "11111111-2222-3333-4444-555555555555"

func setTestConfig(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Payment.Currency = "KES"
	cfg.Payment.PremiumAmount = 70000
	cfg.Paystack.CallbackURL = "http://localhost:3000/payment-success"
	config.AppConfig = cfg
}

func newTestService(t *testing.T, gateway *fakeGateway) (*Service, *fakeTxRepo, *fakeUserRepo, *recordingMailer) {
	t.Helper()
	setTestConfig(t)

	txRepo := newFakeTxRepo()
	userRepo := newFakeUserRepo(&models.User{
		BaseModel: models.BaseModel{ID: testUserID},
		Email:     "amina@example.com",
		Name:      "Amina",
	})
	mailer := &recordingMailer{}
	return NewService(txRepo, userRepo, gateway, mailer), txRepo, userRepo, mailer
}

func pendingTx(txRepo *fakeTxRepo, reference string, amount int64) {
	_ = txRepo.Create(nil, &models.Transaction{
		UserID:    testUserID,
		Reference: reference,
		Amount:    amount,
		Currency:  "KES",
		Status:    models.TransactionStatusPending,
	})
}

// ============================================
// Initiation
// ============================================

func TestInitiateSuccess(t *testing.T) {
	gateway := &fakeGateway{}
	svc, txRepo, _, _ := newTestService(t, gateway)

	resp, err := svc.Initiate(context.Background(), nil, testUserID, &dto.InitiatePaymentRequest{Amount: 70000})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.test/redirect", resp.RedirectURL)
	assert.NotEmpty(t, resp.Reference)

	tx, err := txRepo.FindByReference(nil, resp.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	assert.Equal(t, int64(70000), tx.Amount)
	assert.Equal(t, "KES", tx.Currency, "currency must default from config")
}

func TestInitiateRejectsNonPositiveAmount(t *testing.T) {
	svc, txRepo, _, _ := newTestService(t, &fakeGateway{})

	_, err := svc.Initiate(context.Background(), nil, testUserID, &dto.InitiatePaymentRequest{Amount: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentAmount)
	assert.Empty(t, txRepo.txs, "no transaction row may be created for an invalid amount")
}

func TestInitiateUnavailableGatewayLeavesPending(t *testing.T) {
	gateway := &fakeGateway{initErr: ErrGatewayUnavailable}
	svc, txRepo, _, _ := newTestService(t, gateway)

	_, err := svc.Initiate(context.Background(), nil, testUserID, &dto.InitiatePaymentRequest{Amount: 70000})
	assert.ErrorIs(t, err, apperrors.ErrGatewayUnavailable)

	// The pending row persisted before the gateway call must survive a
	// gateway timeout: the webhook or the reconciler can still resolve it.
	require.Len(t, txRepo.txs, 1)
	for _, tx := range txRepo.txs {
		assert.Equal(t, models.TransactionStatusPending, tx.Status)
	}
}

func TestInitiateGatewayRejectionMarksFailed(t *testing.T) {
	gateway := &fakeGateway{initErr: ErrGatewayRejected}
	svc, txRepo, _, _ := newTestService(t, gateway)

	_, err := svc.Initiate(context.Background(), nil, testUserID, &dto.InitiatePaymentRequest{Amount: 70000})
	assert.ErrorIs(t, err, apperrors.ErrGatewayRejected)

	require.Len(t, txRepo.txs, 1)
	for _, tx := range txRepo.txs {
		assert.Equal(t, models.TransactionStatusFailed, tx.Status, "a definitive rejection must not leave an orphaned pending row")
	}
}

// ============================================
// Webhook
// ============================================

func successEvent(reference string) *WebhookEvent {
	return &WebhookEvent{
		Event: EventChargeSuccess,
		Data: WebhookEventData{
			ID:        424242,
			Reference: reference,
			Status:    "success",
			Amount:    70000,
			Currency:  "KES",
			PaidAt:    "2026-08-28T10:15:00Z",
		},
	}
}

func TestWebhookSuccessUpgradesAndSendsReceipt(t *testing.T) {
	svc, txRepo, userRepo, mailer := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, successEvent("HT-ref-1")))

	tx, err := txRepo.FindByReference(nil, "HT-ref-1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, "424242", tx.GatewayRef)
	require.NotNil(t, tx.PaidAt)

	user, err := userRepo.FindByID(nil, testUserID)
	require.NoError(t, err)
	assert.True(t, user.IsPremium)
	assert.Equal(t, 1, mailer.count())
}

func TestWebhookDuplicateDeliveryIsIdempotent(t *testing.T) {
	svc, txRepo, userRepo, mailer := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, successEvent("HT-ref-1")))
	require.NoError(t, svc.HandleWebhook(context.Background(), nil, successEvent("HT-ref-1")))

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, 1, userRepo.setPremiumCalls, "entitlement side effect must fire exactly once")
	assert.Equal(t, 1, mailer.count(), "receipt must be sent exactly once")
}

func TestWebhookDoesNotOverwriteTerminalStatus(t *testing.T) {
	svc, txRepo, _, _ := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)
	require.NoError(t, svc.HandleWebhook(context.Background(), nil, successEvent("HT-ref-1")))

	failed := successEvent("HT-ref-1")
	failed.Event = EventChargeFailed
	require.NoError(t, svc.HandleWebhook(context.Background(), nil, failed))

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status, "terminal status is immutable")
}

func TestWebhookChargeFailedGrantsNothing(t *testing.T) {
	svc, txRepo, userRepo, mailer := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)

	event := successEvent("HT-ref-1")
	event.Event = EventChargeFailed
	require.NoError(t, svc.HandleWebhook(context.Background(), nil, event))

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	assert.Equal(t, 0, userRepo.setPremiumCalls)
	assert.Equal(t, 0, mailer.count())
}

func TestWebhookUnknownReferenceIsAcknowledged(t *testing.T) {
	svc, _, userRepo, _ := newTestService(t, &fakeGateway{})

	err := svc.HandleWebhook(context.Background(), nil, successEvent("HT-no-such-ref"))
	assert.NoError(t, err, "unknown references must not trigger gateway retries")
	assert.Equal(t, 0, userRepo.setPremiumCalls)
}

func TestWebhookIgnoresNonTerminalEvents(t *testing.T) {
	svc, txRepo, _, _ := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)

	event := successEvent("HT-ref-1")
	event.Event = "subscription.create"
	require.NoError(t, svc.HandleWebhook(context.Background(), nil, event))

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
}

// ============================================
// Verification
// ============================================

func TestVerifyRequiresOwnership(t *testing.T) {
	svc, txRepo, _, _ := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)

	_, err := svc.Verify(context.Background(), nil, "some-other-user", "HT-ref-1")
	assert.ErrorIs(t, err, apperrors.ErrTransactionAccessDenied)
}

func TestVerifyUnknownReference(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeGateway{})

	_, err := svc.Verify(context.Background(), nil, testUserID, "HT-no-such-ref")
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestVerifyTerminalAnsweredFromStore(t *testing.T) {
	gateway := &fakeGateway{}
	svc, txRepo, _, _ := newTestService(t, gateway)
	pendingTx(txRepo, "HT-ref-1", 70000)
	require.NoError(t, svc.HandleWebhook(context.Background(), nil, successEvent("HT-ref-1")))
	gateway.verifyCalls = 0

	resp, err := svc.Verify(context.Background(), nil, testUserID, "HT-ref-1")
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 0, gateway.verifyCalls, "terminal transactions must not hit the gateway")
}

func TestVerifyPendingAtGatewayStaysPending(t *testing.T) {
	gateway := &fakeGateway{verifyMap: map[string]*VerifyResult{
		"HT-ref-1": {Status: GatewayStatusPending},
	}}
	svc, txRepo, _, _ := newTestService(t, gateway)
	pendingTx(txRepo, "HT-ref-1", 70000)

	resp, err := svc.Verify(context.Background(), nil, testUserID, "HT-ref-1")
	require.NoError(t, err)
	assert.False(t, resp.Verified)
	assert.Equal(t, "pending", resp.Status)

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
}

func TestVerifyResolvesSuccessAndUpgrades(t *testing.T) {
	gateway := &fakeGateway{verifyMap: map[string]*VerifyResult{
		"HT-ref-1": {Status: GatewayStatusSuccess, GatewayRef: "987", PaidAt: "2026-08-28T10:15:00Z"},
	}}
	svc, txRepo, userRepo, _ := newTestService(t, gateway)
	pendingTx(txRepo, "HT-ref-1", 70000)

	resp, err := svc.Verify(context.Background(), nil, testUserID, "HT-ref-1")
	require.NoError(t, err)
	assert.True(t, resp.Verified)

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, "987", tx.GatewayRef)
	assert.Equal(t, 1, userRepo.setPremiumCalls)
}

func TestVerifyGatewayUnavailable(t *testing.T) {
	gateway := &fakeGateway{verifyErr: ErrGatewayUnavailable}
	svc, txRepo, _, _ := newTestService(t, gateway)
	pendingTx(txRepo, "HT-ref-1", 70000)

	_, err := svc.Verify(context.Background(), nil, testUserID, "HT-ref-1")
	assert.ErrorIs(t, err, apperrors.ErrGatewayUnavailable)

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
}

// Concurrent webhook deliveries and client verifies racing on one pending
// transaction: exactly one transition is applied, entitlement fires once.
func TestWebhookVerifyRaceSingleTransition(t *testing.T) {
	gateway := &fakeGateway{verifyMap: map[string]*VerifyResult{
		"HT-ref-1": {Status: GatewayStatusSuccess, GatewayRef: "987"},
	}}
	svc, txRepo, userRepo, mailer := newTestService(t, gateway)
	pendingTx(txRepo, "HT-ref-1", 70000)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.HandleWebhook(context.Background(), nil, successEvent("HT-ref-1"))
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Verify(context.Background(), nil, testUserID, "HT-ref-1")
		}()
	}
	wg.Wait()

	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, 1, userRepo.setPremiumCalls, "racing convergence paths must apply entitlement exactly once")
	assert.Equal(t, 1, mailer.count())
}

// ============================================
// Reconciliation
// ============================================

func TestReconcilePendingResolvesStaleTransactions(t *testing.T) {
	gateway := &fakeGateway{verifyMap: map[string]*VerifyResult{
		"HT-stale-1": {Status: GatewayStatusSuccess, GatewayRef: "111"},
		"HT-stale-2": {Status: GatewayStatusPending},
	}}
	svc, txRepo, userRepo, _ := newTestService(t, gateway)
	pendingTx(txRepo, "HT-stale-1", 70000)
	pendingTx(txRepo, "HT-stale-2", 70000)

	resolved, err := svc.ReconcilePending(context.Background(), nil, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	tx1, _ := txRepo.FindByReference(nil, "HT-stale-1")
	assert.Equal(t, models.TransactionStatusSuccess, tx1.Status)
	tx2, _ := txRepo.FindByReference(nil, "HT-stale-2")
	assert.Equal(t, models.TransactionStatusPending, tx2.Status)
	assert.Equal(t, 1, userRepo.setPremiumCalls)
}

func TestReconcilePendingSkipsGatewayErrors(t *testing.T) {
	gateway := &fakeGateway{verifyErr: ErrGatewayUnavailable}
	svc, txRepo, _, _ := newTestService(t, gateway)
	pendingTx(txRepo, "HT-stale-1", 70000)

	resolved, err := svc.ReconcilePending(context.Background(), nil, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)

	tx, _ := txRepo.FindByReference(nil, "HT-stale-1")
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
}

// ============================================
// Gateway figure cross-check
// ============================================

func TestGatewayFiguresMismatch(t *testing.T) {
	tx := &models.Transaction{Reference: "HT-ref-1", Amount: 70000, Currency: "KES"}

	assert.False(t, gatewayFiguresMismatch(tx, 70000, "KES"))
	assert.False(t, gatewayFiguresMismatch(tx, 70000, "kes"), "currency comparison is case-insensitive")
	assert.False(t, gatewayFiguresMismatch(tx, 0, ""), "omitted figures are not a mismatch")
	assert.True(t, gatewayFiguresMismatch(tx, 500, "KES"))
	assert.True(t, gatewayFiguresMismatch(tx, 70000, "NGN"))
}

func TestWebhookAmountMismatchStillFinalizes(t *testing.T) {
	svc, txRepo, _, _ := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-ref-1", 70000)

	event := successEvent("HT-ref-1")
	event.Data.Amount = 500 // gateway disagrees with the stored row

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, event))

	// The gateway's terminal status is authoritative; the discrepancy is
	// logged, not fatal, and the stored amount is never overwritten.
	tx, _ := txRepo.FindByReference(nil, "HT-ref-1")
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, int64(70000), tx.Amount)
}

// ============================================
// History
// ============================================

func TestHistoryReturnsOnlyOwnTransactions(t *testing.T) {
	svc, txRepo, _, _ := newTestService(t, &fakeGateway{})
	pendingTx(txRepo, "HT-mine", 70000)
	_ = txRepo.Create(nil, &models.Transaction{
		UserID:    "someone-else",
		Reference: "HT-theirs",
		Amount:    500,
		Currency:  "KES",
		Status:    models.TransactionStatusPending,
	})

	history, err := svc.History(nil, testUserID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "HT-mine", history[0].Reference)
}

var _ repositories.TransactionRepository = (*fakeTxRepo)(nil)
var _ repositories.UserRepository = (*fakeUserRepo)(nil)
var _ Gateway = (*fakeGateway)(nil)
