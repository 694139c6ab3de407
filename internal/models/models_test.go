package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTransactionStatusIsTerminal(t *testing.T) {
	assert.False(t, TransactionStatusPending.IsTerminal())
	assert.True(t, TransactionStatusSuccess.IsTerminal())
	assert.True(t, TransactionStatusFailed.IsTerminal())
}

// Health records must stay soft-deleted: GORM enables soft delete through
// the DeletedAt field, so removing it would turn user deletes into
// irreversible row drops.
func TestHealthRecordIsSoftDeleted(t *testing.T) {
	field, ok := reflect.TypeOf(HealthRecord{}).FieldByName("DeletedAt")
	require.True(t, ok, "HealthRecord must carry a DeletedAt field")
	assert.Equal(t, reflect.TypeOf(gorm.DeletedAt{}), field.Type)
}
