package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
	portssvc "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/services"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

var _ portsrepo.LoanRepositoryFacade = (*MockLoanRepository)(nil)

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansForMigration(ctx context.Context, afterLoanID string, limit int) ([]domain.Loan, error) {
	args := m.Called(ctx, afterLoanID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CountLoansForMigration(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) ApplyReconciliation(ctx context.Context, loanID string, outstanding decimal.Decimal, status domain.LoanStatus, daysInArrears int, updatedBy string, now time.Time) error {
	args := m.Called(ctx, loanID, outstanding, status, daysInArrears, updatedBy, now)
	return args.Error(0)
}

func (m *MockLoanRepository) MarkMigrationFailed(ctx context.Context, loanID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, loanID, updatedBy, now)
	return args.Error(0)
}

// --- Mock ScheduleRepository ---
type MockScheduleRepository struct {
	mock.Mock
}

var _ portsrepo.ScheduleRepositoryFacade = (*MockScheduleRepository)(nil)

func (m *MockScheduleRepository) FindSchedulesByLoanID(ctx context.Context, loanID string) ([]domain.ScheduleInstallment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleInstallment), args.Error(1)
}

func (m *MockScheduleRepository) UpdateInstallmentAmounts(ctx context.Context, installment domain.ScheduleInstallment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentReader = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

var _ portsrepo.ProductReader = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.LoanProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanProduct), args.Error(1)
}

// --- Mock SchemaRepository ---
type MockSchemaRepository struct {
	mock.Mock
}

var _ portsrepo.SchemaReader = (*MockSchemaRepository)(nil)

func (m *MockSchemaRepository) MissingColumns(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock JournalBackfillSvc ---
type MockBackfillService struct {
	mock.Mock
}

var _ portssvc.JournalBackfillSvc = (*MockBackfillService)(nil)

func (m *MockBackfillService) EnsureDisbursementEntry(ctx context.Context, loan domain.Loan, product domain.LoanProduct, dryRun bool) (bool, error) {
	args := m.Called(ctx, loan, product, dryRun)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackfillService) EnsurePaymentEntries(ctx context.Context, loan domain.Loan, product domain.LoanProduct, payments []domain.Payment, dryRun bool) (int, error) {
	args := m.Called(ctx, loan, product, payments, dryRun)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---
type MigrationServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockScheduleRepo *MockScheduleRepository
	mockPaymentRepo  *MockPaymentRepository
	mockProductRepo  *MockProductRepository
	mockSchemaRepo   *MockSchemaRepository
	mockBackfill     *MockBackfillService
	service          portssvc.MigrationSvcFacade
	product          domain.LoanProduct
}

func (suite *MigrationServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockScheduleRepo = new(MockScheduleRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockSchemaRepo = new(MockSchemaRepository)
	suite.mockBackfill = new(MockBackfillService)
	suite.service = services.NewMigrationService(
		suite.mockLoanRepo,
		suite.mockScheduleRepo,
		suite.mockPaymentRepo,
		suite.mockProductRepo,
		suite.mockSchemaRepo,
		suite.mockBackfill,
		report.NewWriter(suite.T().TempDir()),
		decimal.NewFromInt(1),
		"loan-migration",
	)

	suite.product = domain.LoanProduct{
		ProductID:              "prod-1",
		AccountingType:         domain.AccountingCash,
		LoanPortfolioAccountID: "acc-portfolio",
		FundSourceAccountID:    "acc-fund",
	}
}

func (suite *MigrationServiceTestSuite) migratableLoan(id string) domain.Loan {
	return domain.Loan{
		LoanID:             id,
		ProductID:          "prod-1",
		PrincipalAmount:    decimal.NewFromInt(10000),
		OutstandingBalance: decimal.NewFromInt(8000),
		Status:             domain.StatusDisbursed,
		MigrationStatus:    domain.MigrationPending,
	}
}

func (suite *MigrationServiceTestSuite) TestValidate_Passes() {
	ctx := context.Background()
	suite.mockSchemaRepo.On("MissingColumns", ctx).Return([]string{}, nil).Once()

	err := suite.service.Validate(ctx)

	suite.NoError(err)
}

func (suite *MigrationServiceTestSuite) TestValidate_ReportsMissingColumns() {
	ctx := context.Background()
	suite.mockSchemaRepo.On("MissingColumns", ctx).Return([]string{"loans.migration_status", "journals.reference_id"}, nil).Once()

	err := suite.service.Validate(ctx)

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.Contains(err.Error(), "loans.migration_status")
	suite.Contains(err.Error(), "journals.reference_id")
}

func (suite *MigrationServiceTestSuite) TestRun_DryRunWritesNothing() {
	ctx := context.Background()
	loans := []domain.Loan{suite.migratableLoan("loan-1"), suite.migratableLoan("loan-2")}

	suite.mockLoanRepo.On("CountLoansForMigration", ctx).Return(2, nil).Once()
	suite.mockLoanRepo.On("ListLoansForMigration", ctx, "", 25).Return(loans, nil).Once()
	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, mock.Anything).Return([]domain.ScheduleInstallment{}, nil).Twice()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, mock.Anything).Return([]domain.Payment{}, nil).Twice()
	suite.mockProductRepo.On("FindProductByID", ctx, "prod-1").Return(&suite.product, nil).Once()
	suite.mockBackfill.On("EnsureDisbursementEntry", ctx, mock.Anything, suite.product, true).Return(true, nil).Twice()
	suite.mockBackfill.On("EnsurePaymentEntries", ctx, mock.Anything, suite.product, mock.Anything, true).Return(0, nil).Twice()

	results, err := suite.service.Run(ctx, dto.RunOptions{DryRun: true})

	suite.Require().NoError(err)
	suite.Equal(2, results.Total)
	suite.Equal(2, results.Successful)
	suite.Equal(0, results.Failed)
	suite.Equal(2, results.StatusChanges) // disbursed maps to active on both
	suite.Equal(2, results.JournalsCreated)
	suite.True(results.DryRun)

	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ApplyReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockScheduleRepo.AssertNotCalled(suite.T(), "UpdateInstallmentAmounts", mock.Anything, mock.Anything)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "MarkMigrationFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestRun_PersistsReconciliation() {
	ctx := context.Background()
	loan := suite.migratableLoan("loan-1")

	suite.mockLoanRepo.On("CountLoansForMigration", ctx).Return(1, nil).Once()
	suite.mockLoanRepo.On("ListLoansForMigration", ctx, "", 25).Return([]domain.Loan{loan}, nil).Once()
	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, "loan-1").Return([]domain.ScheduleInstallment{}, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, "loan-1").Return([]domain.Payment{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "prod-1").Return(&suite.product, nil).Once()
	suite.mockLoanRepo.On("ApplyReconciliation", ctx, "loan-1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(8000))
	}), domain.StatusActive, 0, "loan-migration", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockBackfill.On("EnsureDisbursementEntry", ctx, loan, suite.product, false).Return(true, nil).Once()
	suite.mockBackfill.On("EnsurePaymentEntries", ctx, loan, suite.product, mock.Anything, false).Return(2, nil).Once()

	results, err := suite.service.Run(ctx, dto.RunOptions{})

	suite.Require().NoError(err)
	suite.Equal(1, results.Successful)
	suite.Equal(3, results.JournalsCreated)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestRun_ContinuesPastPerLoanFailure() {
	ctx := context.Background()
	broken := suite.migratableLoan("loan-1")
	healthy := suite.migratableLoan("loan-2")

	suite.mockLoanRepo.On("CountLoansForMigration", ctx).Return(2, nil).Once()
	suite.mockLoanRepo.On("ListLoansForMigration", ctx, "", 25).Return([]domain.Loan{broken, healthy}, nil).Once()

	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, "loan-1").Return(nil, errors.New("connection reset")).Once()
	suite.mockLoanRepo.On("MarkMigrationFailed", ctx, "loan-1", "loan-migration", mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, "loan-2").Return([]domain.ScheduleInstallment{}, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, "loan-2").Return([]domain.Payment{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "prod-1").Return(&suite.product, nil).Once()
	suite.mockLoanRepo.On("ApplyReconciliation", ctx, "loan-2", mock.Anything, domain.StatusActive, 0, "loan-migration", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockBackfill.On("EnsureDisbursementEntry", ctx, healthy, suite.product, false).Return(false, nil).Once()
	suite.mockBackfill.On("EnsurePaymentEntries", ctx, healthy, suite.product, mock.Anything, false).Return(0, nil).Once()

	results, err := suite.service.Run(ctx, dto.RunOptions{})

	suite.Require().NoError(err)
	suite.Equal(1, results.Successful)
	suite.Equal(1, results.Failed)
	suite.Require().Len(results.Errors, 1)
	suite.Equal("loan-1", results.Errors[0].LoanID)
	suite.Equal("reconcile", results.Errors[0].Stage)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestRun_MissingProductSkipsBackfill() {
	ctx := context.Background()
	loan := suite.migratableLoan("loan-1")

	suite.mockLoanRepo.On("CountLoansForMigration", ctx).Return(1, nil).Once()
	suite.mockLoanRepo.On("ListLoansForMigration", ctx, "", 25).Return([]domain.Loan{loan}, nil).Once()
	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, "loan-1").Return([]domain.ScheduleInstallment{}, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, "loan-1").Return([]domain.Payment{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "prod-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("ApplyReconciliation", ctx, "loan-1", mock.Anything, domain.StatusActive, 0, "loan-migration", mock.AnythingOfType("time.Time")).Return(nil).Once()

	results, err := suite.service.Run(ctx, dto.RunOptions{})

	suite.Require().NoError(err)
	suite.Equal(1, results.Successful)
	suite.Equal(0, results.JournalsCreated)
	suite.mockBackfill.AssertNotCalled(suite.T(), "EnsureDisbursementEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestRun_BatchesUseKeysetPagination() {
	ctx := context.Background()
	batch1 := []domain.Loan{suite.migratableLoan("loan-1"), suite.migratableLoan("loan-2")}
	batch2 := []domain.Loan{suite.migratableLoan("loan-3")}

	suite.mockLoanRepo.On("CountLoansForMigration", ctx).Return(3, nil).Once()
	suite.mockLoanRepo.On("ListLoansForMigration", ctx, "", 2).Return(batch1, nil).Once()
	suite.mockLoanRepo.On("ListLoansForMigration", ctx, "loan-2", 2).Return(batch2, nil).Once()
	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, mock.Anything).Return([]domain.ScheduleInstallment{}, nil).Times(3)
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, mock.Anything).Return([]domain.Payment{}, nil).Times(3)
	suite.mockProductRepo.On("FindProductByID", ctx, "prod-1").Return(&suite.product, nil).Once()
	suite.mockBackfill.On("EnsureDisbursementEntry", ctx, mock.Anything, suite.product, true).Return(false, nil).Times(3)
	suite.mockBackfill.On("EnsurePaymentEntries", ctx, mock.Anything, suite.product, mock.Anything, true).Return(0, nil).Times(3)

	results, err := suite.service.Run(ctx, dto.RunOptions{DryRun: true, BatchSize: 2})

	suite.Require().NoError(err)
	suite.Equal(3, results.Successful)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *MigrationServiceTestSuite) TestRun_CancelledContextStopsRun() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite.mockLoanRepo.On("CountLoansForMigration", ctx).Return(10, nil).Once()

	_, err := suite.service.Run(ctx, dto.RunOptions{})

	suite.Require().Error(err)
	suite.True(errors.Is(err, context.Canceled))
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ListLoansForMigration", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MigrationServiceTestSuite) TestPreviewLoan_NotFound() {
	ctx := context.Background()
	suite.mockLoanRepo.On("FindLoanByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PreviewLoan(ctx, "missing")

	suite.Require().Error(err)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *MigrationServiceTestSuite) TestPreviewLoan_ComputesWithoutWriting() {
	ctx := context.Background()
	loan := suite.migratableLoan("loan-1")

	suite.mockLoanRepo.On("FindLoanByID", ctx, "loan-1").Return(&loan, nil).Once()
	suite.mockScheduleRepo.On("FindSchedulesByLoanID", ctx, "loan-1").Return([]domain.ScheduleInstallment{}, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentsByLoanID", ctx, "loan-1").Return([]domain.Payment{
		{PaymentID: "pay-1", Amount: decimal.NewFromInt(3000)},
	}, nil).Once()

	resp, err := suite.service.PreviewLoan(ctx, "loan-1")

	suite.Require().NoError(err)
	suite.Equal("loan-1", resp.LoanID)
	suite.True(resp.HarmonizedBalance.Equal(decimal.NewFromInt(7000)))
	suite.Equal(string(services.SourcePayments), resp.BalanceSource)
	suite.Equal(domain.StatusActive, resp.DerivedStatus)
	suite.True(resp.StatusChanged)
	suite.Equal(1, resp.PaymentCount)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ApplyReconciliation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMigrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationServiceTestSuite))
}
