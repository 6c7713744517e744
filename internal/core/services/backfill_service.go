package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	portssvc "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrJournalUnbalanced     = errors.New("journal entries do not balance to zero")
	ErrJournalMinEntries     = errors.New("journal must have at least two transaction entries")
	ErrProductAccountMissing = errors.New("product account mapping is incomplete")
)

// journalBackfillService synthesizes missing disbursement and payment journals
// from a loan product's account mapping.
type journalBackfillService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	createdBy   string
}

// NewJournalBackfillService creates a new JournalBackfillSvc. createdBy is the
// synthetic user recorded on backfilled entries.
func NewJournalBackfillService(journalRepo portsrepo.JournalRepositoryFacade, createdBy string) portssvc.JournalBackfillSvc {
	return &journalBackfillService{
		journalRepo: journalRepo,
		createdBy:   createdBy,
	}
}

var _ portssvc.JournalBackfillSvc = (*journalBackfillService)(nil)

// EnsureDisbursementEntry creates the disbursement journal for a loan unless one
// already exists under the (loan_disbursement, loanID) reference.
func (s *journalBackfillService) EnsureDisbursementEntry(ctx context.Context, loan domain.Loan, product domain.LoanProduct, dryRun bool) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !product.HasAccounting() {
		return false, nil
	}
	if !loan.PrincipalAmount.IsPositive() {
		logger.Warn("Skipping disbursement backfill for non-positive principal", slog.String("loan_id", loan.LoanID))
		return false, nil
	}

	exists, err := s.journalExists(ctx, domain.RefLoanDisbursement, loan.LoanID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if product.LoanPortfolioAccountID == "" || product.FundSourceAccountID == "" {
		return false, fmt.Errorf("%w: product %s lacks portfolio or fund source account", ErrProductAccountMissing, product.ProductID)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	journalDate := loan.CreatedAt
	if loan.DisbursementDate != nil {
		journalDate = *loan.DisbursementDate
	}

	journal := domain.Journal{
		JournalID:     journalID,
		TenantID:      loan.TenantID,
		JournalDate:   journalDate,
		Description:   fmt.Sprintf("Loan disbursement for loan %s", loan.LoanID),
		Status:        domain.Posted,
		ReferenceType: domain.RefLoanDisbursement,
		ReferenceID:   loan.LoanID,
		AuditFields:   s.auditFields(now),
	}
	lines := []domain.Transaction{
		s.line(journalID, product.LoanPortfolioAccountID, loan.PrincipalAmount, domain.Debit, "Loan principal disbursed", now),
		s.line(journalID, product.FundSourceAccountID, loan.PrincipalAmount, domain.Credit, "Loan principal disbursed", now),
	}

	if err := validateJournalBalance(lines); err != nil {
		return false, err
	}

	if dryRun {
		logger.Info("Dry run: would create disbursement journal", slog.String("loan_id", loan.LoanID), slog.String("amount", loan.PrincipalAmount.String()))
		return true, nil
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, lines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent run; the entry exists, which is the goal.
			return false, nil
		}
		return false, fmt.Errorf("failed to save disbursement journal for loan %s: %w", loan.LoanID, err)
	}
	logger.Info("Backfilled disbursement journal", slog.String("loan_id", loan.LoanID), slog.String("journal_id", journalID))
	return true, nil
}

// EnsurePaymentEntries creates a journal for each payment lacking one under the
// (loan_payment, paymentID) reference. Components with a zero or absent amount
// produce no lines.
func (s *journalBackfillService) EnsurePaymentEntries(ctx context.Context, loan domain.Loan, product domain.LoanProduct, payments []domain.Payment, dryRun bool) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !product.HasAccounting() {
		return 0, nil
	}
	if product.LoanPortfolioAccountID == "" || product.FundSourceAccountID == "" {
		return 0, fmt.Errorf("%w: product %s lacks portfolio or fund source account", ErrProductAccountMissing, product.ProductID)
	}

	created := 0
	for _, payment := range payments {
		exists, err := s.journalExists(ctx, domain.RefLoanPayment, payment.PaymentID)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		now := time.Now().UTC()
		journalID := uuid.NewString()
		lines := s.paymentLines(journalID, product, payment.Allocate(), now)
		if len(lines) == 0 {
			logger.Warn("Payment has no postable components, skipping journal", slog.String("payment_id", payment.PaymentID))
			continue
		}
		if err := validateJournalBalance(lines); err != nil {
			return created, fmt.Errorf("payment %s produced invalid journal: %w", payment.PaymentID, err)
		}

		journal := domain.Journal{
			JournalID:     journalID,
			TenantID:      loan.TenantID,
			JournalDate:   payment.PaymentDate,
			Description:   fmt.Sprintf("Loan payment %s for loan %s", payment.PaymentID, loan.LoanID),
			Status:        domain.Posted,
			ReferenceType: domain.RefLoanPayment,
			ReferenceID:   payment.PaymentID,
			AuditFields:   s.auditFields(now),
		}

		if dryRun {
			logger.Info("Dry run: would create payment journal", slog.String("payment_id", payment.PaymentID), slog.String("amount", payment.Amount.String()))
			created++
			continue
		}

		if err := s.journalRepo.SaveJournal(ctx, journal, lines); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("failed to save payment journal for payment %s: %w", payment.PaymentID, err)
		}
		created++
	}
	return created, nil
}

// paymentLines allocates a payment across up to three balanced debit/credit
// pairs. Interest and fee components are dropped when the product declares no
// account for them; penalties are not posted by the backfill.
func (s *journalBackfillService) paymentLines(journalID string, product domain.LoanProduct, alloc domain.Allocation, now time.Time) []domain.Transaction {
	var lines []domain.Transaction

	if alloc.Principal.IsPositive() {
		lines = append(lines,
			s.line(journalID, product.FundSourceAccountID, alloc.Principal, domain.Debit, "Principal repayment", now),
			s.line(journalID, product.LoanPortfolioAccountID, alloc.Principal, domain.Credit, "Principal repayment", now),
		)
	}
	if alloc.Interest.IsPositive() && product.InterestIncomeAccountID != nil {
		lines = append(lines,
			s.line(journalID, product.FundSourceAccountID, alloc.Interest, domain.Debit, "Interest received", now),
			s.line(journalID, *product.InterestIncomeAccountID, alloc.Interest, domain.Credit, "Interest received", now),
		)
	}
	if alloc.Fee.IsPositive() && product.FeeIncomeAccountID != nil {
		lines = append(lines,
			s.line(journalID, product.FundSourceAccountID, alloc.Fee, domain.Debit, "Fees received", now),
			s.line(journalID, *product.FeeIncomeAccountID, alloc.Fee, domain.Credit, "Fees received", now),
		)
	}
	return lines
}

func (s *journalBackfillService) journalExists(ctx context.Context, refType domain.ReferenceType, refID string) (bool, error) {
	_, err := s.journalRepo.FindJournalByReference(ctx, refType, refID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to look up journal by reference (%s, %s): %w", refType, refID, err)
}

func (s *journalBackfillService) line(journalID, accountID string, amount decimal.Decimal, txType domain.TransactionType, notes string, now time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		JournalID:       journalID,
		AccountID:       accountID,
		Amount:          amount,
		TransactionType: txType,
		Notes:           notes,
		AuditFields:     s.auditFields(now),
	}
}

func (s *journalBackfillService) auditFields(now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     s.createdBy,
		LastUpdatedAt: now,
		LastUpdatedBy: s.createdBy,
	}
}

// validateJournalBalance checks that the lines of a journal balance properly.
func validateJournalBalance(transactions []domain.Transaction) error {
	if len(transactions) < 2 {
		return ErrJournalMinEntries
	}

	zero := decimal.NewFromInt(0)

	// For double-entry accounting, the sum of debits must equal the sum of credits.
	debitsSum := zero
	creditsSum := zero

	for _, txn := range transactions {
		if txn.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("transaction amount must be positive for transaction ID %s", txn.TransactionID)
		}
		if txn.TransactionType == domain.Debit {
			debitsSum = debitsSum.Add(txn.Amount)
		} else {
			creditsSum = creditsSum.Add(txn.Amount)
		}
	}

	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrJournalUnbalanced, debitsSum.String(), creditsSum.String())
	}

	return nil
}
