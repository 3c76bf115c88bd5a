package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	statuses := []string{TxnStatusPending, TxnStatusCompleted, TxnStatusFailed, TxnStatusRefunded}

	allowed := map[[2]string]bool{
		{TxnStatusPending, TxnStatusCompleted}:  true,
		{TxnStatusPending, TxnStatusFailed}:     true,
		{TxnStatusCompleted, TxnStatusRefunded}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("bogus", TxnStatusCompleted))
	assert.False(t, CanTransition(TxnStatusPending, "bogus"))
}
