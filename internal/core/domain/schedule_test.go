package domain_test

import (
	"testing"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScheduleInstallment_Outstanding(t *testing.T) {
	tests := []struct {
		name string
		inst domain.ScheduleInstallment
		want int64
	}{
		{
			name: "stored outstanding wins",
			inst: domain.ScheduleInstallment{
				TotalAmount:       decimal.NewFromInt(3000),
				PaidAmount:        decimal.NewFromInt(1000),
				OutstandingAmount: decimalPtr(decimal.NewFromInt(1500)),
			},
			want: 1500,
		},
		{
			name: "derived from total minus paid when absent",
			inst: domain.ScheduleInstallment{
				TotalAmount: decimal.NewFromInt(3000),
				PaidAmount:  decimal.NewFromInt(1000),
			},
			want: 2000,
		},
		{
			name: "overpayment clamps to zero",
			inst: domain.ScheduleInstallment{
				TotalAmount: decimal.NewFromInt(3000),
				PaidAmount:  decimal.NewFromInt(3500),
			},
			want: 0,
		},
		{
			name: "negative stored value clamps to zero",
			inst: domain.ScheduleInstallment{
				TotalAmount:       decimal.NewFromInt(3000),
				OutstandingAmount: decimalPtr(decimal.NewFromInt(-100)),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.inst.Outstanding()
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestValidateScheduleOrdering(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	inst := func(number int, dueOffsetDays int) domain.ScheduleInstallment {
		return domain.ScheduleInstallment{
			InstallmentNumber: number,
			DueDate:           base.AddDate(0, 0, dueOffsetDays),
		}
	}

	t.Run("valid schedule", func(t *testing.T) {
		err := domain.ValidateScheduleOrdering([]domain.ScheduleInstallment{
			inst(1, 0), inst(2, 30), inst(3, 30), inst(4, 60),
		})
		assert.NoError(t, err)
	})

	t.Run("empty schedule", func(t *testing.T) {
		assert.NoError(t, domain.ValidateScheduleOrdering(nil))
	})

	t.Run("gap in installment numbers", func(t *testing.T) {
		err := domain.ValidateScheduleOrdering([]domain.ScheduleInstallment{
			inst(1, 0), inst(3, 30),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not contiguous")
	})

	t.Run("numbers not starting at one", func(t *testing.T) {
		err := domain.ValidateScheduleOrdering([]domain.ScheduleInstallment{
			inst(2, 0), inst(3, 30),
		})
		assert.Error(t, err)
	})

	t.Run("decreasing due dates", func(t *testing.T) {
		err := domain.ValidateScheduleOrdering([]domain.ScheduleInstallment{
			inst(1, 30), inst(2, 0),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "precedes")
	})
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
