package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/pdf"
)

// PDFService renders client-facing documents as PDF downloads
type PDFService struct {
	quoteRepo   quoting.QuoteRepository
	requestRepo quoting.QuoteRequestRepository
	invoiceRepo invoicing.InvoiceRepository
	profileRepo identity.ProfileRepository
}

// NewPDFService creates a new PDFService
func NewPDFService(
	quoteRepo quoting.QuoteRepository,
	requestRepo quoting.QuoteRequestRepository,
	invoiceRepo invoicing.InvoiceRepository,
	profileRepo identity.ProfileRepository,
) *PDFService {
	return &PDFService{
		quoteRepo:   quoteRepo,
		requestRepo: requestRepo,
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
	}
}

// QuotePDF renders a contractor's own quote
func (s *PDFService) QuotePDF(ctx context.Context, contractorID, quoteID uuid.UUID) ([]byte, string, error) {
	quote, err := s.quoteRepo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, "", err
	}
	return s.renderQuote(ctx, quote)
}

// QuotePDFByToken renders a sent quote for the client
func (s *PDFService) QuotePDFByToken(ctx context.Context, token string) ([]byte, string, error) {
	quote, err := s.quoteRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if quote.Status == quoting.QuoteStatusDraft {
		return nil, "", shared.ErrNotFound
	}
	return s.renderQuote(ctx, quote)
}

func (s *PDFService) renderQuote(ctx context.Context, quote *quoting.Quote) ([]byte, string, error) {
	request, err := s.requestRepo.FindByIDUnscoped(ctx, quote.RequestID)
	if err != nil {
		return nil, "", err
	}
	profile, err := s.profileRepo.FindByID(ctx, quote.ContractorID)
	if err != nil {
		return nil, "", err
	}
	data, err := pdf.RenderQuote(quote, request, profile)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("quote-%s.pdf", quote.ID), nil
}

// InvoicePDF renders a contractor's own invoice
func (s *PDFService) InvoicePDF(ctx context.Context, contractorID, invoiceID uuid.UUID) ([]byte, string, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, contractorID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	return s.renderInvoice(ctx, inv)
}

// InvoicePDFByToken renders a sent invoice for the client
func (s *PDFService) InvoicePDFByToken(ctx context.Context, token string) ([]byte, string, error) {
	inv, err := s.invoiceRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if inv.Status == invoicing.InvoiceStatusDraft {
		return nil, "", shared.ErrNotFound
	}
	return s.renderInvoice(ctx, inv)
}

func (s *PDFService) renderInvoice(ctx context.Context, inv *invoicing.Invoice) ([]byte, string, error) {
	profile, err := s.profileRepo.FindByID(ctx, inv.ContractorID)
	if err != nil {
		return nil, "", err
	}
	data, err := pdf.RenderInvoice(inv, profile)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("%s.pdf", inv.InvoiceNumber), nil
}
