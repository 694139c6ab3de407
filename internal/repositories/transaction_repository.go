package repositories

import (
	"errors"
	"time"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("payment transaction not found")
)

type TransactionRepository interface {
	Create(db *gorm.DB, tx *models.Transaction) error
	FindByReference(db *gorm.DB, reference string) (*models.Transaction, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Transaction, error)
	// MarkTerminal transitions pending -> status as a single conditional
	// update. Returns true if this call applied the transition, false if the
	// row was already terminal (or the reference is unknown).
	MarkTerminal(db *gorm.DB, reference string, status models.TransactionStatus, gatewayRef string, paidAt *time.Time) (bool, error)
	FindStalePending(db *gorm.DB, olderThan time.Time, limit int) ([]models.Transaction, error)
}

type TransactionRepositoryImpl struct{}

func NewTransactionRepository() TransactionRepository {
	return &TransactionRepositoryImpl{}
}

func (r *TransactionRepositoryImpl) Create(db *gorm.DB, tx *models.Transaction) error {
	return db.Create(tx).Error
}

func (r *TransactionRepositoryImpl) FindByReference(db *gorm.DB, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	err := db.Where("reference = ?", reference).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

// MarkTerminal is the single-writer transition primitive shared by the
// webhook and verify paths. The WHERE clause closes the race window: two
// concurrent callers cannot both see RowsAffected == 1 for the same row.
func (r *TransactionRepositoryImpl) MarkTerminal(db *gorm.DB, reference string, status models.TransactionStatus, gatewayRef string, paidAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if gatewayRef != "" {
		updates["gateway_ref"] = gatewayRef
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	result := db.Model(&models.Transaction{}).
		Where("reference = ? AND status = ?", reference, models.TransactionStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *TransactionRepositoryImpl) FindStalePending(db *gorm.DB, olderThan time.Time, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.Where("status = ? AND created_at < ?", models.TransactionStatusPending, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
