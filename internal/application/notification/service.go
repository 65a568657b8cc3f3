package notification

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/identity"
	"github.com/brickquote/backend/internal/domain/invoicing"
	"github.com/brickquote/backend/internal/domain/quoting"
	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/domain/shared/valueobject"
	"github.com/brickquote/backend/internal/infrastructure/email"
	"github.com/brickquote/backend/internal/infrastructure/push"
)

// EmailSender delivers one email
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

// PushSender delivers one push notification to a set of device tokens
type PushSender interface {
	Send(ctx context.Context, n push.Notification) (*push.Result, error)
}

// Service fans business events out to email and push. Every delivery is
// best-effort: failures are logged and never propagate to the caller, so a
// broken mail provider cannot fail a state change that already happened.
type Service struct {
	profiles          identity.ProfileRepository
	email             EmailSender
	push              PushSender
	baseURL           string
	contactInbox      string
	unsubscribeSecret []byte
	logger            *zap.Logger
}

// Config contains configuration for the notification Service
type Config struct {
	Profiles          identity.ProfileRepository
	Email             EmailSender // nil disables email delivery
	Push              PushSender  // nil disables push delivery
	BaseURL           string
	ContactInbox      string
	UnsubscribeSecret []byte
	Logger            *zap.Logger
}

// NewService creates a notification service
func NewService(cfg Config) *Service {
	return &Service{
		profiles:          cfg.Profiles,
		email:             cfg.Email,
		push:              cfg.Push,
		baseURL:           cfg.BaseURL,
		contactInbox:      cfg.ContactInbox,
		unsubscribeSecret: cfg.UnsubscribeSecret,
		logger:            cfg.Logger,
	}
}

// UnsubscribeURL builds the tokenized link embedded in contractor emails
func (s *Service) UnsubscribeURL(profileID string) string {
	token := shared.UnsubscribeToken(s.unsubscribeSecret, profileID)
	return s.baseURL + "/unsubscribe?uid=" + profileID + "&token=" + token
}

// sendEmail delivers one message, logging failures
func (s *Service) sendEmail(ctx context.Context, msg email.Message, err error) {
	if err != nil {
		s.logger.Error("Failed to build email", zap.Error(err))
		return
	}
	if s.email == nil || msg.To == "" {
		return
	}
	if sendErr := s.email.Send(ctx, msg); sendErr != nil {
		s.logger.Error("Failed to send email",
			zap.String("subject", msg.Subject),
			zap.Error(sendErr))
	}
}

// notifyContractor emails the contractor, honoring the email notification
// preference, and pushes to every registered device.
func (s *Service) notifyContractor(ctx context.Context, profile *identity.Profile, msg email.Message, buildErr error, title, body string) {
	if profile.EmailNotifications {
		s.sendEmail(ctx, msg, buildErr)
	}
	s.sendPush(ctx, profile, title, body)
}

// sendPush delivers a push to the contractor's devices and prunes tokens
// FCM reports as dead.
func (s *Service) sendPush(ctx context.Context, profile *identity.Profile, title, body string) {
	if s.push == nil || len(profile.PushTokens) == 0 {
		return
	}
	tokens := make([]string, len(profile.PushTokens))
	for i, t := range profile.PushTokens {
		tokens[i] = t.Token
	}
	result, err := s.push.Send(ctx, push.Notification{
		Tokens: tokens,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		s.logger.Error("Failed to send push notification",
			zap.String("title", title),
			zap.Error(err))
		return
	}
	if len(result.InvalidTokens) > 0 {
		profile.RemovePushTokens(result.InvalidTokens)
		if err := s.profiles.Update(ctx, profile); err != nil {
			s.logger.Warn("Failed to prune invalid push tokens",
				zap.String("profile_id", profile.ID.String()),
				zap.Error(err))
		}
	}
}

func formatAmount(country valueobject.CountryConfig, v decimal.Decimal) string {
	return country.FormatAmount(v)
}

func itemRows(country valueobject.CountryConfig, items []quoting.QuoteItem, materials []quoting.QuoteMaterial) []email.ItemRow {
	rows := make([]email.ItemRow, 0, len(items)+len(materials))
	for _, item := range items {
		rows = append(rows, email.ItemRow{
			Name:      item.ServiceName,
			Quantity:  item.Quantity.String(),
			Unit:      item.Unit.String(),
			UnitPrice: formatAmount(country, item.UnitPrice),
			Total:     formatAmount(country, item.Total),
		})
	}
	for _, m := range materials {
		rows = append(rows, email.ItemRow{
			Name:      m.Name,
			Quantity:  m.Quantity.String(),
			UnitPrice: formatAmount(country, m.UnitPrice),
			Total:     formatAmount(country, m.Total),
		})
	}
	return rows
}

// documentData assembles the shared financial block for document emails.
// Zero discount or tax leaves the corresponding fields empty so the
// templates omit those rows.
func documentData(profile *identity.Profile, clientName string, rows []email.ItemRow, totals quoting.Totals, discountPercent, taxPercent decimal.Decimal) email.DocumentData {
	country := profile.Country()
	data := email.DocumentData{
		ClientName:      clientName,
		ContractorName:  profile.DisplayName(),
		ContractorPhone: profile.Phone,
		Items:           rows,
		Subtotal:        formatAmount(country, totals.Subtotal),
		TotalNet:        formatAmount(country, totals.Net),
		TotalGross:      formatAmount(country, totals.Gross),
	}
	if discountPercent.IsPositive() {
		data.DiscountPercent = discountPercent.String()
		data.DiscountAmount = formatAmount(country, totals.Subtotal.Sub(totals.Net))
	}
	if taxPercent.IsPositive() {
		data.TaxLabel = country.TaxLabel
		data.TaxPercent = taxPercent.String()
		data.TaxAmount = formatAmount(country, totals.Tax)
	}
	return data
}

// QuoteSent emails the quote to the client
func (s *Service) QuoteSent(ctx context.Context, profile *identity.Profile, req *quoting.QuoteRequest, quote *quoting.Quote) {
	country := profile.Country()
	data := documentData(profile, req.ClientName,
		itemRows(country, quote.Items, quote.Materials),
		quote.Totals(), quote.DiscountPercent, quote.TaxPercent)
	data.Notes = quote.Notes
	if quote.ValidUntil != nil {
		data.ValidUntil = country.FormatDate(*quote.ValidUntil)
	}
	msg, err := email.QuoteEmail(req.ClientEmail, data)
	s.sendEmail(ctx, msg, err)
}

// QuoteDecision notifies the contractor of a client accept or reject
func (s *Service) QuoteDecision(ctx context.Context, profile *identity.Profile, req *quoting.QuoteRequest, quote *quoting.Quote, accepted bool) {
	country := profile.Country()
	msg, err := email.QuoteDecisionEmail(profile.Email, email.NotificationData{
		ContractorName: profile.DisplayName(),
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		DocumentName:   "Quote total",
		Amount:         formatAmount(country, quote.TotalGross),
		ActionURL:      s.baseURL + "/requests/" + req.ID.String(),
		UnsubscribeURL: s.UnsubscribeURL(profile.ID.String()),
	}, accepted)

	title := "Quote rejected"
	body := req.ClientName + " rejected your quote"
	if accepted {
		title = "Quote accepted"
		body = req.ClientName + " accepted your quote for " + formatAmount(country, quote.TotalGross)
	}
	s.notifyContractor(ctx, profile, msg, err, title, body)
}

// RequestReceived notifies the contractor of a new quote request
func (s *Service) RequestReceived(ctx context.Context, profile *identity.Profile, req *quoting.QuoteRequest) {
	msg, err := email.RequestReceivedEmail(profile.Email, email.NotificationData{
		ContractorName: profile.DisplayName(),
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		Description:    req.Description,
		ActionURL:      s.baseURL + "/requests/" + req.ID.String(),
		UnsubscribeURL: s.UnsubscribeURL(profile.ID.String()),
	})
	s.notifyContractor(ctx, profile, msg, err,
		"New quote request", req.ClientName+" sent you a quote request")
}

// InvoiceSent emails the invoice to the client
func (s *Service) InvoiceSent(ctx context.Context, profile *identity.Profile, inv *invoicing.Invoice) {
	country := profile.Country()
	data := documentData(profile, inv.ClientName,
		itemRows(country, inv.Items, nil),
		inv.Totals(), inv.DiscountPercent, inv.TaxPercent)
	data.InvoiceNumber = inv.InvoiceNumber
	data.Notes = inv.Notes
	if inv.DueDate != nil {
		data.DueDate = country.FormatDate(*inv.DueDate)
	}
	data.BankName, data.BankAccount, data.BankRouting = inv.EffectiveBankDetails(profile.BankName, profile.BankAccount, profile.BankRouting)
	data.PayURL = s.baseURL + "/invoice/" + inv.Token

	msg, err := email.InvoiceEmail(inv.ClientEmail, data, country.BankRoutingLabel)
	s.sendEmail(ctx, msg, err)
}

// InvoiceReminder emails a payment reminder to the client
func (s *Service) InvoiceReminder(ctx context.Context, profile *identity.Profile, inv *invoicing.Invoice, overdueDays int) {
	country := profile.Country()
	data := documentData(profile, inv.ClientName,
		itemRows(country, inv.Items, nil),
		inv.Totals(), inv.DiscountPercent, inv.TaxPercent)
	data.InvoiceNumber = inv.InvoiceNumber
	if inv.DueDate != nil {
		data.DueDate = country.FormatDate(*inv.DueDate)
	}
	data.BankName, data.BankAccount, data.BankRouting = inv.EffectiveBankDetails(profile.BankName, profile.BankAccount, profile.BankRouting)
	data.PayURL = s.baseURL + "/invoice/" + inv.Token

	msg, err := email.ReminderEmail(inv.ClientEmail, data, country.BankRoutingLabel, overdueDays)
	s.sendEmail(ctx, msg, err)
}

// InvoicePaid notifies the contractor that the client marked an invoice paid
func (s *Service) InvoicePaid(ctx context.Context, profile *identity.Profile, inv *invoicing.Invoice) {
	country := profile.Country()
	msg, err := email.InvoicePaidEmail(profile.Email, email.NotificationData{
		ContractorName: profile.DisplayName(),
		ClientName:     inv.ClientName,
		DocumentName:   inv.InvoiceNumber,
		Amount:         formatAmount(country, inv.TotalGross),
		ActionURL:      s.baseURL + "/invoices/" + inv.ID.String(),
		UnsubscribeURL: s.UnsubscribeURL(profile.ID.String()),
	})
	s.notifyContractor(ctx, profile, msg, err,
		"Invoice paid",
		inv.ClientName+" paid invoice "+inv.InvoiceNumber)
}

// PaymentFailed sends the dunning notice after a failed subscription charge
func (s *Service) PaymentFailed(ctx context.Context, profile *identity.Profile) {
	msg, err := email.PaymentFailedEmail(profile.Email, email.NotificationData{
		ContractorName: profile.DisplayName(),
		ActionURL:      s.baseURL + "/settings/billing",
	})
	s.sendEmail(ctx, msg, err)
}

// ContactForm forwards a public contact submission to the operator inbox
func (s *Service) ContactForm(ctx context.Context, name, fromEmail, message string) {
	msg, err := email.ContactEmail(s.contactInbox, email.ContactData{
		Name:    name,
		Email:   fromEmail,
		Message: message,
	})
	s.sendEmail(ctx, msg, err)
}
