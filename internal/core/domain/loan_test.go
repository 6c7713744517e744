package domain_test

import (
	"testing"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapLegacyStatus(t *testing.T) {
	tests := []struct {
		in         domain.LoanStatus
		want       domain.LoanStatus
		wantMapped bool
	}{
		{domain.StatusDisbursed, domain.StatusActive, true},
		{domain.StatusApproved, domain.StatusPendingDisbursement, true},
		{domain.StatusPending, domain.StatusPendingDisbursement, true},
		{domain.StatusActive, domain.StatusActive, false},
		{domain.LoanStatus("restructured"), domain.LoanStatus("restructured"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, mapped := domain.MapLegacyStatus(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMapped, mapped)
		})
	}
}

func TestIsUnifiedStatus(t *testing.T) {
	for _, status := range []domain.LoanStatus{
		domain.StatusPendingDisbursement, domain.StatusActive, domain.StatusOverdue,
		domain.StatusInArrears, domain.StatusClosed, domain.StatusWrittenOff, domain.StatusDefaulted,
	} {
		assert.True(t, domain.IsUnifiedStatus(status), "expected %s to be unified", status)
	}

	for _, status := range []domain.LoanStatus{
		domain.StatusPending, domain.StatusApproved, domain.StatusDisbursed, domain.LoanStatus("restructured"), domain.LoanStatus(""),
	} {
		assert.False(t, domain.IsUnifiedStatus(status), "expected %s to not be unified", status)
	}
}
