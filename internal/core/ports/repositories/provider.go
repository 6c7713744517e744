package repositories

// RepositoryProvider bundles the repository facades handed to the service layer.
type RepositoryProvider struct {
	LoanRepo     LoanRepositoryFacade
	ScheduleRepo ScheduleRepositoryFacade
	PaymentRepo  PaymentReader
	ProductRepo  ProductReader
	JournalRepo  JournalRepositoryFacade
	SchemaRepo   SchemaReader
}
