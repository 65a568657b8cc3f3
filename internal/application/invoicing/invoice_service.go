package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/application/notification"
	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
)

// InvoiceService handles the invoice lifecycle, numbering and the public
// token-authenticated payment confirmation flow.
type InvoiceService struct {
	invoiceRepo invoicing.InvoiceRepository
	quoteRepo   quoting.QuoteRepository
	requestRepo quoting.QuoteRequestRepository
	profileRepo identity.ProfileRepository
	notifier    *notification.Service
	logger      *zap.Logger
}

// InvoiceServiceConfig contains configuration for InvoiceService
type InvoiceServiceConfig struct {
	InvoiceRepo invoicing.InvoiceRepository
	QuoteRepo   quoting.QuoteRepository
	RequestRepo quoting.QuoteRequestRepository
	ProfileRepo identity.ProfileRepository
	Notifier    *notification.Service
	Logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(cfg InvoiceServiceConfig) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: cfg.InvoiceRepo,
		quoteRepo:   cfg.QuoteRepo,
		requestRepo: cfg.RequestRepo,
		profileRepo: cfg.ProfileRepo,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
	}
}

// nextNumber allocates the next sequential display number for the year
func (s *InvoiceService) nextNumber(ctx context.Context, contractorID uuid.UUID) (string, error) {
	year := time.Now().Year()
	count, err := s.invoiceRepo.CountForYear(ctx, contractorID, year)
	if err != nil {
		return "", err
	}
	return invoicing.NextInvoiceNumber(year, int(count)+1), nil
}

// Create starts a draft invoice from scratch
func (s *InvoiceService) Create(ctx context.Context, contractorID uuid.UUID, req UpsertInvoiceRequest) (*InvoiceResponse, error) {
	number, err := s.nextNumber(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	inv, err := invoicing.NewInvoice(contractorID, number, req.ClientName)
	if err != nil {
		return nil, err
	}
	if err := s.applyContent(inv, req); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// CreateFromQuote issues a draft invoice carrying over an accepted quote
func (s *InvoiceService) CreateFromQuote(ctx context.Context, contractorID, quoteID uuid.UUID) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, err
	}

	request, err := s.requestRepo.FindByID(ctx, contractorID, quote.RequestID)
	if err != nil {
		return nil, err
	}
	number, err := s.nextNumber(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	inv, err := invoicing.NewInvoiceFromQuote(quote, number, request.ClientName, request.ClientEmail)
	if err != nil {
		return nil, err
	}
	if request.Address != "" {
		if err := inv.SetClientDetails(request.ClientName, request.ClientEmail, request.Address); err != nil {
			return nil, err
		}
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) applyContent(inv *invoicing.Invoice, req UpsertInvoiceRequest) error {
	items := make([]quoting.QuoteItem, len(req.Items))
	for i, in := range req.Items {
		item, err := quoting.NewQuoteItem(in.ServiceName, in.Quantity, quoting.ServiceUnit(in.Unit), in.UnitPrice)
		if err != nil {
			return err
		}
		items[i] = item
	}
	if err := inv.SetClientDetails(req.ClientName, req.ClientEmail, req.ClientAddress); err != nil {
		return err
	}
	if err := inv.SetItems(items); err != nil {
		return err
	}
	if err := inv.SetPercentages(req.DiscountPercent, req.TaxPercent); err != nil {
		return err
	}
	if err := inv.SetNotes(req.Notes); err != nil {
		return err
	}
	if err := inv.SetDueDate(req.DueDate); err != nil {
		return err
	}
	return inv.SetBankDetails(req.BankName, req.BankAccount, req.BankRouting)
}

// Update replaces the content of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, contractorID, invoiceID uuid.UUID, req UpsertInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, contractorID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.applyContent(inv, req); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves one invoice
func (s *InvoiceService) GetByID(ctx context.Context, contractorID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, contractorID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves a contractor's invoices, newest first
func (s *InvoiceService) List(ctx context.Context, contractorID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// Delete removes an invoice
func (s *InvoiceService) Delete(ctx context.Context, contractorID, invoiceID uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, contractorID, invoiceID)
}

// Send transitions a draft invoice to sent and emails it to the client.
// The email is best-effort.
func (s *InvoiceService) Send(ctx context.Context, contractorID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, contractorID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.ClientEmail == "" {
		return nil, shared.NewDomainError("MISSING_CLIENT_EMAIL", "The invoice has no client email to send to")
	}
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	if err := inv.Send(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.notifier.InvoiceSent(ctx, profile, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// SendReminder re-emails a sent invoice to the client and bumps the
// reminder counter
func (s *InvoiceService) SendReminder(ctx context.Context, contractorID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, contractorID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.ClientEmail == "" {
		return nil, shared.NewDomainError("MISSING_CLIENT_EMAIL", "The invoice has no client email to send to")
	}
	profile, err := s.profileRepo.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	if err := inv.RecordReminder(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.notifier.InvoiceReminder(ctx, profile, inv, inv.OverdueDays(time.Now()))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByToken retrieves the client-facing view of an invoice. Draft invoices
// are invisible to clients.
func (s *InvoiceService) GetByToken(ctx context.Context, token string) (*PublicInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Status == invoicing.InvoiceStatusDraft {
		return nil, shared.ErrNotFound
	}
	profile, err := s.profileRepo.FindByID(ctx, inv.ContractorID)
	if err != nil {
		return nil, err
	}
	country := profile.Country()
	bankName, bankAccount, bankRouting := inv.EffectiveBankDetails(profile.BankName, profile.BankAccount, profile.BankRouting)

	return &PublicInvoiceResponse{
		ContractorName:   profile.DisplayName(),
		ContractorPhone:  profile.Phone,
		InvoiceNumber:    inv.InvoiceNumber,
		ClientName:       inv.ClientName,
		Items:            inv.Items,
		DiscountPercent:  inv.DiscountPercent,
		TaxPercent:       inv.TaxPercent,
		TaxLabel:         country.TaxLabel,
		Subtotal:         inv.Subtotal,
		TotalNet:         inv.TotalNet,
		TotalTax:         inv.TotalTax,
		TotalGross:       inv.TotalGross,
		CurrencySymbol:   country.CurrencySymbol,
		Notes:            inv.Notes,
		DueDate:          inv.DueDate,
		BankName:         bankName,
		BankAccount:      bankAccount,
		BankRouting:      bankRouting,
		BankRoutingLabel: country.BankRoutingLabel,
		Status:           inv.Status.String(),
		PaidAt:           inv.PaidAt,
		CreatedAt:        inv.CreatedAt,
	}, nil
}

// MarkPaidByToken records the client's payment confirmation. The status
// guard runs as a conditional update so a replayed confirmation does not
// retrigger notifications.
func (s *InvoiceService) MarkPaidByToken(ctx context.Context, token string) error {
	won, err := s.invoiceRepo.MarkPaidIfSent(ctx, token)
	if err != nil {
		return err
	}
	if !won {
		if _, err := s.invoiceRepo.FindByToken(ctx, token); err != nil {
			return err
		}
		return shared.ErrInvalidState
	}

	inv, err := s.invoiceRepo.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	profile, err := s.profileRepo.FindByID(ctx, inv.ContractorID)
	if err != nil {
		s.logger.Warn("Invoice paid but contractor lookup failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
		return nil
	}
	s.notifier.InvoicePaid(ctx, profile, inv)
	return nil
}
