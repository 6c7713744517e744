package mapping

import (
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/domain"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	var refType, refID *string
	if d.ReferenceType != "" {
		rt := string(d.ReferenceType)
		refType = &rt
	}
	if d.ReferenceID != "" {
		ri := d.ReferenceID
		refID = &ri
	}
	return models.Journal{
		JournalID:     d.JournalID,
		TenantID:      d.TenantID,
		JournalDate:   d.JournalDate,
		Description:   d.Description,
		Status:        models.JournalStatus(d.Status),
		ReferenceType: refType,
		ReferenceID:   refID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	refType := domain.ReferenceType("")
	if m.ReferenceType != nil {
		refType = domain.ReferenceType(*m.ReferenceType)
	}
	refID := ""
	if m.ReferenceID != nil {
		refID = *m.ReferenceID
	}
	return domain.Journal{
		JournalID:     m.JournalID,
		TenantID:      m.TenantID,
		JournalDate:   m.JournalDate,
		Description:   m.Description,
		Status:        domain.JournalStatus(m.Status),
		ReferenceType: refType,
		ReferenceID:   refID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		JournalID:       d.JournalID,
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		TransactionType: models.TransactionType(d.TransactionType),
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		JournalID:       m.JournalID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
