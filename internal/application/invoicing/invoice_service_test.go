package invoicing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/application/notification"
	appquoting "github.com/brickquote/backend/internal/application/quoting"
	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
)

// MockInvoiceRepository is a mock implementation of invoicing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, contractorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByToken(ctx context.Context, token string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, contractorID uuid.UUID) ([]invoicing.Invoice, error) {
	args := m.Called(ctx, contractorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForYear(ctx context.Context, contractorID uuid.UUID, year int) (int64, error) {
	args := m.Called(ctx, contractorID, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	args := m.Called(ctx, contractorID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	args := m.Called(ctx, contractorID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkPaidIfSent(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockQuoteRepository is a mock implementation of quoting.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Save(ctx context.Context, quote *quoting.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) Update(ctx context.Context, quote *quoting.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*quoting.Quote, error) {
	args := m.Called(ctx, contractorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoting.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByToken(ctx context.Context, token string) (*quoting.Quote, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoting.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, contractorID uuid.UUID) ([]quoting.Quote, error) {
	args := m.Called(ctx, contractorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quoting.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindByRequestID(ctx context.Context, contractorID, requestID uuid.UUID) ([]quoting.Quote, error) {
	args := m.Called(ctx, contractorID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quoting.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	args := m.Called(ctx, contractorID, id)
	return args.Error(0)
}

func (m *MockQuoteRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	args := m.Called(ctx, contractorID)
	return args.Error(0)
}

func (m *MockQuoteRepository) UpdateStatusIfSent(ctx context.Context, token string, target quoting.QuoteStatus) (bool, error) {
	args := m.Called(ctx, token, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteRepository) MarkViewedIfFirst(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockQuoteRequestRepository is a mock implementation of quoting.QuoteRequestRepository
type MockQuoteRequestRepository struct {
	mock.Mock
}

func (m *MockQuoteRequestRepository) Save(ctx context.Context, request *quoting.QuoteRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockQuoteRequestRepository) Update(ctx context.Context, request *quoting.QuoteRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockQuoteRequestRepository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*quoting.QuoteRequest, error) {
	args := m.Called(ctx, contractorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoting.QuoteRequest), args.Error(1)
}

func (m *MockQuoteRequestRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*quoting.QuoteRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoting.QuoteRequest), args.Error(1)
}

func (m *MockQuoteRequestRepository) FindAll(ctx context.Context, contractorID uuid.UUID, status *quoting.RequestStatus) ([]quoting.QuoteRequest, error) {
	args := m.Called(ctx, contractorID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quoting.QuoteRequest), args.Error(1)
}

func (m *MockQuoteRequestRepository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	args := m.Called(ctx, contractorID, id)
	return args.Error(0)
}

func (m *MockQuoteRequestRepository) DeleteAllForContractor(ctx context.Context, contractorID uuid.UUID) error {
	args := m.Called(ctx, contractorID)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*identity.Profile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type invoiceServiceMocks struct {
	invoices *MockInvoiceRepository
	quotes   *MockQuoteRepository
	requests *MockQuoteRequestRepository
	profiles *MockProfileRepository
}

func newTestInvoiceService(t *testing.T) (*InvoiceService, invoiceServiceMocks) {
	t.Helper()
	mocks := invoiceServiceMocks{
		invoices: new(MockInvoiceRepository),
		quotes:   new(MockQuoteRepository),
		requests: new(MockQuoteRequestRepository),
		profiles: new(MockProfileRepository),
	}
	logger := zap.NewNop()
	notifier := notification.NewService(notification.Config{
		Profiles: mocks.profiles,
		BaseURL:  "https://app.example.com",
		Logger:   logger,
	})
	service := NewInvoiceService(InvoiceServiceConfig{
		InvoiceRepo: mocks.invoices,
		QuoteRepo:   mocks.quotes,
		RequestRepo: mocks.requests,
		ProfileRepo: mocks.profiles,
		Notifier:    notifier,
		Logger:      logger,
	})
	return service, mocks
}

func testUpsertRequest() UpsertInvoiceRequest {
	return UpsertInvoiceRequest{
		ClientName:  "Anna Nowak",
		ClientEmail: "anna@example.com",
		Items: []appquoting.QuoteItemInput{
			{ServiceName: "Bathroom renovation", Quantity: decimal.NewFromInt(1), Unit: "ryczalt", UnitPrice: decimal.NewFromInt(4800)},
		},
		TaxPercent: decimal.NewFromInt(20),
	}
}

func acceptedTestQuote(t *testing.T, contractorID, requestID uuid.UUID) *quoting.Quote {
	t.Helper()
	quote, err := quoting.NewQuote(contractorID, requestID)
	assert.NoError(t, err)
	item, err := quoting.NewQuoteItem("Repointing", decimal.NewFromInt(18), quoting.UnitSquareMeter, decimal.NewFromInt(45))
	assert.NoError(t, err)
	assert.NoError(t, quote.SetItems([]quoting.QuoteItem{item}))
	assert.NoError(t, quote.Send())
	assert.NoError(t, quote.Accept())
	return quote
}

func sentTestInvoice(t *testing.T, contractorID uuid.UUID) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(contractorID, "INV-2026-0001", "Anna Nowak")
	assert.NoError(t, err)
	assert.NoError(t, inv.SetClientDetails("Anna Nowak", "anna@example.com", ""))
	item, err := quoting.NewQuoteItem("Bathroom renovation", decimal.NewFromInt(1), quoting.UnitFlatRate, decimal.NewFromInt(4800))
	assert.NoError(t, err)
	assert.NoError(t, inv.SetItems([]quoting.QuoteItem{item}))
	assert.NoError(t, inv.Send())
	return inv
}

func TestInvoiceService_Create_AllocatesSequentialNumber(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	year := time.Now().Year()

	mocks.invoices.On("CountForYear", mock.Anything, contractorID, year).Return(int64(6), nil)
	mocks.invoices.On("Save", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	resp, err := service.Create(context.Background(), contractorID, testUpsertRequest())

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-0007", year), resp.InvoiceNumber)
	assert.Equal(t, invoicing.InvoiceStatusDraft.String(), resp.Status)
	assert.True(t, resp.TotalGross.Equal(decimal.NewFromInt(5760)))
	mocks.invoices.AssertExpectations(t)
}

func TestInvoiceService_Create_CountFailure(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	repoErr := errors.New("connection reset")

	mocks.invoices.On("CountForYear", mock.Anything, contractorID, time.Now().Year()).Return(int64(0), repoErr)

	resp, err := service.Create(context.Background(), contractorID, testUpsertRequest())

	assert.ErrorIs(t, err, repoErr)
	assert.Nil(t, resp)
	mocks.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateFromQuote_CarriesClientDetails(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	request, err := quoting.NewQuoteRequest(contractorID,
		"Anna Nowak", "Anna@Example.com", "+44 7700 900123",
		"12 Mill Lane, Leeds", "Repoint the garden wall", nil)
	assert.NoError(t, err)
	quote := acceptedTestQuote(t, contractorID, request.ID)

	mocks.quotes.On("FindByID", mock.Anything, contractorID, quote.ID).Return(quote, nil)
	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)
	mocks.invoices.On("CountForYear", mock.Anything, contractorID, time.Now().Year()).Return(int64(0), nil)
	mocks.invoices.On("Save", mock.Anything, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	resp, err := service.CreateFromQuote(context.Background(), contractorID, quote.ID)

	assert.NoError(t, err)
	assert.Equal(t, &quote.ID, resp.QuoteID)
	assert.Equal(t, "Anna Nowak", resp.ClientName)
	assert.Equal(t, "anna@example.com", resp.ClientEmail)
	assert.Equal(t, "12 Mill Lane, Leeds", resp.ClientAddress)
	assert.True(t, resp.TotalGross.Equal(quote.TotalGross))
	mocks.invoices.AssertExpectations(t)
}

func TestInvoiceService_CreateFromQuote_RequiresAcceptedQuote(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	request, err := quoting.NewQuoteRequest(contractorID,
		"Anna Nowak", "anna@example.com", "", "12 Mill Lane, Leeds", "Repoint the garden wall", nil)
	assert.NoError(t, err)
	quote, err := quoting.NewQuote(contractorID, request.ID)
	assert.NoError(t, err)

	mocks.quotes.On("FindByID", mock.Anything, contractorID, quote.ID).Return(quote, nil)
	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)
	mocks.invoices.On("CountForYear", mock.Anything, contractorID, time.Now().Year()).Return(int64(0), nil)

	resp, err := service.CreateFromQuote(context.Background(), contractorID, quote.ID)

	assert.Nil(t, resp)
	assert.Error(t, err)
	mocks.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Send_RequiresClientEmail(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	inv, err := invoicing.NewInvoice(contractorID, "INV-2026-0001", "Anna Nowak")
	assert.NoError(t, err)

	mocks.invoices.On("FindByID", mock.Anything, contractorID, inv.ID).Return(inv, nil)

	resp, err := service.Send(context.Background(), contractorID, inv.ID)

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_CLIENT_EMAIL", domainErr.Code)
}

func TestInvoiceService_SendReminder_BumpsCounter(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	inv := sentTestInvoice(t, contractorID)

	mocks.invoices.On("FindByID", mock.Anything, contractorID, inv.ID).Return(inv, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)
	mocks.invoices.On("Update", mock.Anything, inv).Return(nil)

	resp, err := service.SendReminder(context.Background(), contractorID, inv.ID)

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.ReminderCount)
	assert.Equal(t, invoicing.InvoiceStatusSent.String(), resp.Status)
	mocks.invoices.AssertExpectations(t)
}

func TestInvoiceService_SendReminder_DraftRejected(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	inv, err := invoicing.NewInvoice(contractorID, "INV-2026-0001", "Anna Nowak")
	assert.NoError(t, err)
	assert.NoError(t, inv.SetClientDetails("Anna Nowak", "anna@example.com", ""))

	mocks.invoices.On("FindByID", mock.Anything, contractorID, inv.ID).Return(inv, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)

	resp, err := service.SendReminder(context.Background(), contractorID, inv.ID)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	mocks.invoices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_GetByToken_HidesDrafts(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	inv, err := invoicing.NewInvoice(contractorID, "INV-2026-0001", "Anna Nowak")
	assert.NoError(t, err)

	mocks.invoices.On("FindByToken", mock.Anything, inv.Token).Return(inv, nil)

	resp, err := service.GetByToken(context.Background(), inv.Token)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	mocks.profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestInvoiceService_GetByToken_UsesProfileBankDetails(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	profile.UpdateBankDetails("Monzo", "12345678", "04-00-04")
	inv := sentTestInvoice(t, contractorID)

	mocks.invoices.On("FindByToken", mock.Anything, inv.Token).Return(inv, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)

	resp, err := service.GetByToken(context.Background(), inv.Token)

	assert.NoError(t, err)
	assert.Equal(t, "Monzo", resp.BankName)
	assert.Equal(t, "12345678", resp.BankAccount)
	assert.Equal(t, "04-00-04", resp.BankRouting)
	assert.Equal(t, invoicing.InvoiceStatusSent.String(), resp.Status)
}

func TestInvoiceService_MarkPaidByToken_NotifiesContractor(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	inv := sentTestInvoice(t, contractorID)
	assert.NoError(t, inv.MarkPaid())

	mocks.invoices.On("MarkPaidIfSent", mock.Anything, inv.Token).Return(true, nil)
	mocks.invoices.On("FindByToken", mock.Anything, inv.Token).Return(inv, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)

	err = service.MarkPaidByToken(context.Background(), inv.Token)

	assert.NoError(t, err)
	mocks.invoices.AssertExpectations(t)
	mocks.profiles.AssertExpectations(t)
}

func TestInvoiceService_MarkPaidByToken_AlreadyPaid(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	contractorID := uuid.New()
	inv := sentTestInvoice(t, contractorID)
	assert.NoError(t, inv.MarkPaid())

	mocks.invoices.On("MarkPaidIfSent", mock.Anything, inv.Token).Return(false, nil)
	mocks.invoices.On("FindByToken", mock.Anything, inv.Token).Return(inv, nil)

	err := service.MarkPaidByToken(context.Background(), inv.Token)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	mocks.profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestInvoiceService_MarkPaidByToken_UnknownToken(t *testing.T) {
	service, mocks := newTestInvoiceService(t)
	token := "0123456789abcdef0123456789abcdef"

	mocks.invoices.On("MarkPaidIfSent", mock.Anything, token).Return(false, nil)
	mocks.invoices.On("FindByToken", mock.Anything, token).Return(nil, shared.ErrNotFound)

	err := service.MarkPaidByToken(context.Background(), token)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
