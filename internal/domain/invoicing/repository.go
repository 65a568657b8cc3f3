package invoicing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, contractorID, id uuid.UUID) (*Invoice, error)
	FindByToken(ctx context.Context, token string) (*Invoice, error)
	FindAll(ctx context.Context, contractorID uuid.UUID) ([]Invoice, error)
	CountForYear(ctx context.Context, contractorID uuid.UUID, year int) (int64, error)
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
	DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error

	// MarkPaidIfSent atomically transitions a sent invoice identified by
	// token to paid. Returns false when no row matched the status guard.
	MarkPaidIfSent(ctx context.Context, token string) (bool, error)
}
