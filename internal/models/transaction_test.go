package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTransactionID(t *testing.T) {
	id := GenerateTransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN"))
	assert.GreaterOrEqual(t, len(id), 10)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateTransactionID()] = true
	}
	assert.Greater(t, len(seen), 90, "ids should be effectively unique")
}

func TestValidTransactionStatus(t *testing.T) {
	assert.True(t, ValidTransactionStatus(TransactionPaid))
	assert.True(t, ValidTransactionStatus(TransactionPending))
	assert.True(t, ValidTransactionStatus(TransactionCancel))
	assert.False(t, ValidTransactionStatus("paid"))
	assert.False(t, ValidTransactionStatus(""))
	assert.False(t, ValidTransactionStatus("Refunded"))
}
