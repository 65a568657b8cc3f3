package quoting

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/application/notification"
	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
)

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

type quoteServiceMocks struct {
	quotes   *MockQuoteRepository
	requests *MockQuoteRequestRepository
	profiles *MockProfileRepository
}

func newTestQuoteService(t *testing.T) (*QuoteService, quoteServiceMocks) {
	t.Helper()
	mocks := quoteServiceMocks{
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
	service := NewQuoteService(QuoteServiceConfig{
		QuoteRepo:   mocks.quotes,
		RequestRepo: mocks.requests,
		ProfileRepo: mocks.profiles,
		Notifier:    notifier,
		Logger:      logger,
	})
	return service, mocks
}

func newTestRequest(t *testing.T, contractorID uuid.UUID) *quoting.QuoteRequest {
	t.Helper()
	request, err := quoting.NewQuoteRequest(contractorID,
		"Anna Nowak", "anna@example.com", "+44 7700 900123",
		"12 Mill Lane, Leeds", "Repoint the garden wall", nil)
	assert.NoError(t, err)
	return request
}

func newSentQuote(t *testing.T, contractorID, requestID uuid.UUID) *quoting.Quote {
	t.Helper()
	quote, err := quoting.NewQuote(contractorID, requestID)
	assert.NoError(t, err)
	item, err := quoting.NewQuoteItem("Repointing", decimal.NewFromInt(18), quoting.UnitSquareMeter, decimal.NewFromInt(45))
	assert.NoError(t, err)
	assert.NoError(t, quote.SetItems([]quoting.QuoteItem{item}))
	assert.NoError(t, quote.Send())
	return quote
}

func TestQuoteService_Create_MovesNewRequestToReviewing(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request := newTestRequest(t, contractorID)

	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)
	mocks.quotes.On("Save", mock.Anything, mock.AnythingOfType("*quoting.Quote")).Return(nil)
	mocks.requests.On("Update", mock.Anything, request).Return(nil)

	resp, err := service.Create(context.Background(), contractorID, request.ID)

	assert.NoError(t, err)
	assert.Equal(t, request.ID, resp.RequestID)
	assert.Equal(t, quoting.RequestStatusReviewing, request.Status)
	mocks.requests.AssertExpectations(t)
	mocks.quotes.AssertExpectations(t)
}

func TestQuoteService_Create_RequestNotFound(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	requestID := uuid.New()

	mocks.requests.On("FindByID", mock.Anything, contractorID, requestID).Return(nil, shared.ErrNotFound)

	resp, err := service.Create(context.Background(), contractorID, requestID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, resp)
	mocks.quotes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuoteService_Create_KeepsReviewingStatus(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request := newTestRequest(t, contractorID)
	assert.NoError(t, request.SetStatus(quoting.RequestStatusReviewing))

	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)
	mocks.quotes.On("Save", mock.Anything, mock.AnythingOfType("*quoting.Quote")).Return(nil)

	_, err := service.Create(context.Background(), contractorID, request.ID)

	assert.NoError(t, err)
	mocks.requests.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestQuoteService_Send_RequiresClientEmail(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request, err := quoting.NewQuoteRequest(contractorID,
		"Anna Nowak", "", "", "12 Mill Lane, Leeds", "Repoint the garden wall", nil)
	assert.NoError(t, err)
	quote, err := quoting.NewQuote(contractorID, request.ID)
	assert.NoError(t, err)

	mocks.quotes.On("FindByID", mock.Anything, contractorID, quote.ID).Return(quote, nil)
	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)

	resp, err := service.Send(context.Background(), contractorID, quote.ID)

	assert.Nil(t, resp)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MISSING_CLIENT_EMAIL", domainErr.Code)
	mocks.quotes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestQuoteService_Send_MarksRequestQuoted(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request := newTestRequest(t, contractorID)
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)

	quote, err := quoting.NewQuote(contractorID, request.ID)
	assert.NoError(t, err)
	item, err := quoting.NewQuoteItem("Repointing", decimal.NewFromInt(18), quoting.UnitSquareMeter, decimal.NewFromInt(45))
	assert.NoError(t, err)
	assert.NoError(t, quote.SetItems([]quoting.QuoteItem{item}))

	mocks.quotes.On("FindByID", mock.Anything, contractorID, quote.ID).Return(quote, nil)
	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)
	mocks.quotes.On("Update", mock.Anything, quote).Return(nil)
	mocks.requests.On("Update", mock.Anything, request).Return(nil)

	resp, err := service.Send(context.Background(), contractorID, quote.ID)

	assert.NoError(t, err)
	assert.Equal(t, quoting.QuoteStatusSent.String(), resp.Status)
	assert.Equal(t, quoting.RequestStatusQuoted, request.Status)
	mocks.quotes.AssertExpectations(t)
	mocks.requests.AssertExpectations(t)
}

func TestQuoteService_Send_AlreadySent(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request := newTestRequest(t, contractorID)
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	quote := newSentQuote(t, contractorID, request.ID)

	mocks.quotes.On("FindByID", mock.Anything, contractorID, quote.ID).Return(quote, nil)
	mocks.requests.On("FindByID", mock.Anything, contractorID, request.ID).Return(request, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)

	resp, err := service.Send(context.Background(), contractorID, quote.ID)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	mocks.quotes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestQuoteService_GetByToken_HidesDrafts(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	quote, err := quoting.NewQuote(contractorID, uuid.New())
	assert.NoError(t, err)

	mocks.quotes.On("FindByToken", mock.Anything, quote.Token).Return(quote, nil)

	resp, err := service.GetByToken(context.Background(), quote.Token)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	mocks.requests.AssertNotCalled(t, "FindByIDUnscoped", mock.Anything, mock.Anything)
}

func TestQuoteService_GetByToken_BuildsClientView(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request := newTestRequest(t, contractorID)
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	quote := newSentQuote(t, contractorID, request.ID)

	mocks.quotes.On("FindByToken", mock.Anything, quote.Token).Return(quote, nil)
	mocks.requests.On("FindByIDUnscoped", mock.Anything, request.ID).Return(request, nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)

	resp, err := service.GetByToken(context.Background(), quote.Token)

	assert.NoError(t, err)
	assert.Equal(t, "Test Mason", resp.ContractorName)
	assert.Equal(t, "Anna Nowak", resp.ClientName)
	assert.Equal(t, quoting.QuoteStatusSent.String(), resp.Status)
	assert.True(t, resp.TotalGross.Equal(decimal.NewFromInt(810)))
}

func TestQuoteService_TrackView_PropagatesError(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	repoErr := errors.New("connection reset")

	mocks.quotes.On("MarkViewedIfFirst", mock.Anything, "deadbeef").Return(false, repoErr)

	err := service.TrackView(context.Background(), "deadbeef")

	assert.ErrorIs(t, err, repoErr)
}

func TestQuoteService_Decide_Accept(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	request := newTestRequest(t, contractorID)
	assert.NoError(t, request.SetStatus(quoting.RequestStatusQuoted))
	profile, err := identity.NewProfile("mason@example.com", "hash", "Test Mason", "GB")
	assert.NoError(t, err)
	quote := newSentQuote(t, contractorID, request.ID)
	assert.NoError(t, quote.Accept())

	mocks.quotes.On("UpdateStatusIfSent", mock.Anything, quote.Token, quoting.QuoteStatusAccepted).Return(true, nil)
	mocks.quotes.On("FindByToken", mock.Anything, quote.Token).Return(quote, nil)
	mocks.requests.On("FindByIDUnscoped", mock.Anything, request.ID).Return(request, nil)
	mocks.requests.On("Update", mock.Anything, request).Return(nil)
	mocks.profiles.On("FindByID", mock.Anything, contractorID).Return(profile, nil)

	err = service.Decide(context.Background(), quote.Token, true)

	assert.NoError(t, err)
	assert.Equal(t, quoting.RequestStatusAccepted, request.Status)
	mocks.quotes.AssertExpectations(t)
	mocks.requests.AssertExpectations(t)
}

func TestQuoteService_Decide_AlreadyDecided(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	quote := newSentQuote(t, contractorID, uuid.New())
	assert.NoError(t, quote.Accept())

	mocks.quotes.On("UpdateStatusIfSent", mock.Anything, quote.Token, quoting.QuoteStatusRejected).Return(false, nil).Once()
	mocks.quotes.On("FindByToken", mock.Anything, quote.Token).Return(quote, nil)

	err := service.Decide(context.Background(), quote.Token, false)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestQuoteService_Decide_UnknownToken(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	token := "0123456789abcdef0123456789abcdef"

	mocks.quotes.On("UpdateStatusIfSent", mock.Anything, token, quoting.QuoteStatusAccepted).Return(false, nil)
	mocks.quotes.On("FindByToken", mock.Anything, token).Return(nil, shared.ErrNotFound)

	err := service.Decide(context.Background(), token, true)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestQuoteService_Decide_SurvivesRequestLookupFailure(t *testing.T) {
	service, mocks := newTestQuoteService(t)
	contractorID := uuid.New()
	quote := newSentQuote(t, contractorID, uuid.New())
	assert.NoError(t, quote.Accept())

	mocks.quotes.On("UpdateStatusIfSent", mock.Anything, quote.Token, quoting.QuoteStatusAccepted).Return(true, nil)
	mocks.quotes.On("FindByToken", mock.Anything, quote.Token).Return(quote, nil)
	mocks.requests.On("FindByIDUnscoped", mock.Anything, quote.RequestID).Return(nil, errors.New("connection reset"))

	err := service.Decide(context.Background(), quote.Token, true)

	assert.NoError(t, err)
}
