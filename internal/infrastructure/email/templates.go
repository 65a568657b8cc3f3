package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// ItemRow is one line of a quote or invoice table, amounts preformatted
// with the contractor's currency symbol.
type ItemRow struct {
	Name      string
	Quantity  string
	Unit      string
	UnitPrice string
	Total     string
}

// DocumentData drives the quote and invoice emails. Discount and tax rows
// are omitted when the corresponding percent string is empty.
type DocumentData struct {
	ClientName      string
	ContractorName  string
	ContractorPhone string
	Items           []ItemRow
	Subtotal        string
	DiscountPercent string
	DiscountAmount  string
	TaxLabel        string
	TaxPercent      string
	TaxAmount       string
	TotalNet        string
	TotalGross      string
	Notes           string
	ValidUntil      string

	// Invoice-only fields
	InvoiceNumber string
	DueDate       string
	BankName      string
	BankAccount   string
	BankRouting   string
	PayURL        string
}

// NotificationData drives short contractor-facing notifications
type NotificationData struct {
	ContractorName string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	Description    string
	DocumentName   string
	Amount         string
	ActionURL      string
	UnsubscribeURL string
}

// ContactData drives the contact form forward to the operator inbox
type ContactData struct {
	Name    string
	Email   string
	Message string
}

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6; margin: 0; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
    <div style="background: linear-gradient(135deg, #3b82f6, #1d4ed8); padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 28px;">{{.Title}}</h1>
      {{if .Subtitle}}<p style="color: rgba(255,255,255,0.9); margin: 8px 0 0 0;">{{.Subtitle}}</p>{{end}}
    </div>
    <div style="padding: 32px;">
      {{.Body}}
    </div>
    <div style="background: #f9fafb; padding: 24px; text-align: center; border-top: 1px solid #e5e7eb;">
      <p style="color: #9ca3af; font-size: 13px; margin: 0;">Sent by BrickQuote</p>
      {{if .UnsubscribeURL}}<p style="color: #9ca3af; font-size: 12px; margin: 8px 0 0 0;"><a href="{{.UnsubscribeURL}}" style="color: #9ca3af;">Unsubscribe from these notifications</a></p>{{end}}
    </div>
  </div>
</body>
</html>`))

var documentBodyTmpl = template.Must(template.New("document").Parse(`
<p style="color: #374151; font-size: 16px; margin: 0 0 24px 0;">Hi <strong>{{.ClientName}}</strong>,</p>
<p style="color: #6b7280; font-size: 15px; margin: 0 0 32px 0;">{{.Intro}}</p>
<table style="width: 100%; border-collapse: collapse; margin-bottom: 24px;">
  <thead>
    <tr style="background: #f9fafb;">
      <th style="padding: 12px; text-align: left; font-weight: 600; color: #374151;">Service</th>
      <th style="padding: 12px; text-align: center; font-weight: 600; color: #374151;">Quantity</th>
      <th style="padding: 12px; text-align: right; font-weight: 600; color: #374151;">Price</th>
      <th style="padding: 12px; text-align: right; font-weight: 600; color: #374151;">Total</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}
    <tr>
      <td style="padding: 12px; border-bottom: 1px solid #e5e7eb;"><strong>{{.Name}}</strong></td>
      <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: center;">{{.Quantity}} {{.Unit}}</td>
      <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{.UnitPrice}}</td>
      <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: right; font-weight: 600;">{{.Total}}</td>
    </tr>
    {{end}}
  </tbody>
  <tfoot>
    <tr>
      <td colspan="3" style="padding: 8px 12px; text-align: right;">Subtotal:</td>
      <td style="padding: 8px 12px; text-align: right;">{{.Subtotal}}</td>
    </tr>
    {{if .DiscountPercent}}
    <tr>
      <td colspan="3" style="padding: 8px 12px; text-align: right;">Discount ({{.DiscountPercent}}%):</td>
      <td style="padding: 8px 12px; text-align: right; color: #dc2626;">-{{.DiscountAmount}}</td>
    </tr>
    {{end}}
    {{if .TaxPercent}}
    <tr>
      <td colspan="3" style="padding: 8px 12px; text-align: right;">Net:</td>
      <td style="padding: 8px 12px; text-align: right;">{{.TotalNet}}</td>
    </tr>
    <tr>
      <td colspan="3" style="padding: 8px 12px; text-align: right;">{{.TaxLabel}} ({{.TaxPercent}}%):</td>
      <td style="padding: 8px 12px; text-align: right;">+{{.TaxAmount}}</td>
    </tr>
    {{end}}
    <tr style="background: #f0fdf4;">
      <td colspan="3" style="padding: 16px 12px; text-align: right; font-size: 18px; font-weight: 700; color: #166534;">TOTAL:</td>
      <td style="padding: 16px 12px; text-align: right; font-size: 18px; font-weight: 700; color: #166534;">{{.TotalGross}}</td>
    </tr>
  </tfoot>
</table>
{{if .Notes}}
<div style="background: #fef3c7; border-left: 4px solid #f59e0b; padding: 16px; margin-bottom: 24px; border-radius: 0 8px 8px 0;">
  <p style="margin: 0; color: #92400e; font-size: 14px;"><strong>Notes:</strong><br>{{.Notes}}</p>
</div>
{{end}}
{{if .ValidUntil}}
<p style="color: #6b7280; font-size: 14px; margin: 0 0 24px 0;">Quote valid until: <strong>{{.ValidUntil}}</strong></p>
{{end}}
{{if .DueDate}}
<p style="color: #6b7280; font-size: 14px; margin: 0 0 12px 0;">Payment due by: <strong>{{.DueDate}}</strong></p>
{{end}}
{{if .BankAccount}}
<div style="background: #eff6ff; border-left: 4px solid #3b82f6; padding: 16px; margin-bottom: 24px; border-radius: 0 8px 8px 0;">
  <p style="margin: 0; color: #1e40af; font-size: 14px;">
    <strong>Payment details:</strong><br>
    {{if .BankName}}{{.BankName}}<br>{{end}}
    Account: {{.BankAccount}}{{if .BankRouting}}<br>{{.RoutingLabel}}: {{.BankRouting}}{{end}}
  </p>
</div>
{{end}}
{{if .PayURL}}
<div style="text-align: center; margin: 32px 0;">
  <a href="{{.PayURL}}" style="display: inline-block; background: #16a34a; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">Mark as paid</a>
</div>
{{end}}
{{if .ContractorPhone}}
<div style="text-align: center; margin: 32px 0;">
  <p style="color: #374151; margin: 0 0 16px 0;">Questions? Get in touch:</p>
  <a href="tel:{{.ContractorPhone}}" style="display: inline-block; background: #3b82f6; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">Call: {{.ContractorPhone}}</a>
</div>
{{end}}`))

var notificationBodyTmpl = template.Must(template.New("notification").Parse(`
<p style="color: #374151; font-size: 16px; margin: 0 0 24px 0;">Hi <strong>{{.ContractorName}}</strong>,</p>
<p style="color: #6b7280; font-size: 15px; margin: 0 0 24px 0;">{{.Lead}}</p>
{{if .ClientName}}
<div style="background: #f9fafb; border-radius: 8px; padding: 16px; margin-bottom: 24px;">
  <p style="margin: 0 0 4px 0; color: #374151; font-size: 14px;"><strong>{{.ClientName}}</strong></p>
  {{if .ClientEmail}}<p style="margin: 0 0 4px 0; color: #6b7280; font-size: 14px;">{{.ClientEmail}}</p>{{end}}
  {{if .ClientPhone}}<p style="margin: 0 0 4px 0; color: #6b7280; font-size: 14px;">{{.ClientPhone}}</p>{{end}}
  {{if .Description}}<p style="margin: 12px 0 0 0; color: #6b7280; font-size: 14px;">{{.Description}}</p>{{end}}
</div>
{{end}}
{{if .Amount}}
<p style="color: #374151; font-size: 15px; margin: 0 0 24px 0;">{{.DocumentName}}: <strong>{{.Amount}}</strong></p>
{{end}}
{{if .ActionURL}}
<div style="text-align: center; margin: 32px 0;">
  <a href="{{.ActionURL}}" style="display: inline-block; background: #3b82f6; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">{{.ActionLabel}}</a>
</div>
{{end}}`))

var contactBodyTmpl = template.Must(template.New("contact").Parse(`
<p style="color: #374151; font-size: 16px; margin: 0 0 24px 0;">New contact form message:</p>
<div style="background: #f9fafb; border-radius: 8px; padding: 16px;">
  <p style="margin: 0 0 4px 0; color: #374151; font-size: 14px;"><strong>{{.Name}}</strong> ({{.Email}})</p>
  <p style="margin: 12px 0 0 0; color: #6b7280; font-size: 14px; white-space: pre-wrap;">{{.Message}}</p>
</div>`))

type layoutData struct {
	Title          string
	Subtitle       string
	Body           template.HTML
	UnsubscribeURL string
}

func renderLayout(data layoutData) (string, error) {
	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email: failed to render template: %w", err)
	}
	return buf.String(), nil
}

type documentBodyData struct {
	DocumentData
	Intro        string
	RoutingLabel string
}

func renderDocumentBody(data documentBodyData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := documentBodyTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email: failed to render template: %w", err)
	}
	return template.HTML(buf.String()), nil
}

type notificationBodyData struct {
	NotificationData
	Lead        string
	ActionLabel string
}

func renderNotificationBody(data notificationBodyData) (template.HTML, error) {
	var buf bytes.Buffer
	if err := notificationBodyTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email: failed to render template: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// QuoteEmail builds the quote email sent to a client
func QuoteEmail(to string, data DocumentData) (Message, error) {
	body, err := renderDocumentBody(documentBodyData{
		DocumentData: data,
		Intro:        "Thank you for your interest. Here is the detailed quote for the work:",
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title:    "Quote",
		Subtitle: "from " + data.ContractorName,
		Body:     body,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Quote from %s", data.ContractorName),
		HTML:    html,
	}, nil
}

// InvoiceEmail builds the invoice email sent to a client
func InvoiceEmail(to string, data DocumentData, routingLabel string) (Message, error) {
	body, err := renderDocumentBody(documentBodyData{
		DocumentData: data,
		Intro:        fmt.Sprintf("Please find invoice %s below.", data.InvoiceNumber),
		RoutingLabel: routingLabel,
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title:    "Invoice " + data.InvoiceNumber,
		Subtitle: "from " + data.ContractorName,
		Body:     body,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Invoice %s from %s", data.InvoiceNumber, data.ContractorName),
		HTML:    html,
	}, nil
}

// ReminderEmail builds a payment reminder for an unpaid invoice
func ReminderEmail(to string, data DocumentData, routingLabel string, overdueDays int) (Message, error) {
	intro := fmt.Sprintf("This is a friendly reminder that invoice %s is awaiting payment.", data.InvoiceNumber)
	if overdueDays > 0 {
		intro = fmt.Sprintf("Invoice %s is %d days overdue. Please arrange payment at your earliest convenience.", data.InvoiceNumber, overdueDays)
	}
	body, err := renderDocumentBody(documentBodyData{
		DocumentData: data,
		Intro:        intro,
		RoutingLabel: routingLabel,
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title:    "Payment reminder",
		Subtitle: "Invoice " + data.InvoiceNumber,
		Body:     body,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Payment reminder: invoice %s", data.InvoiceNumber),
		HTML:    html,
	}, nil
}

// QuoteDecisionEmail notifies the contractor that a client accepted or
// rejected a quote.
func QuoteDecisionEmail(to string, data NotificationData, accepted bool) (Message, error) {
	lead := fmt.Sprintf("%s rejected your quote.", data.ClientName)
	title := "Quote rejected"
	if accepted {
		lead = fmt.Sprintf("Good news! %s accepted your quote.", data.ClientName)
		title = "Quote accepted"
	}
	body, err := renderNotificationBody(notificationBodyData{
		NotificationData: data,
		Lead:             lead,
		ActionLabel:      "View quote",
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title:          title,
		Body:           body,
		UnsubscribeURL: data.UnsubscribeURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: title, HTML: html}, nil
}

// RequestReceivedEmail notifies the contractor of a new quote request
func RequestReceivedEmail(to string, data NotificationData) (Message, error) {
	body, err := renderNotificationBody(notificationBodyData{
		NotificationData: data,
		Lead:             "You have received a new quote request.",
		ActionLabel:      "View request",
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title:          "New quote request",
		Body:           body,
		UnsubscribeURL: data.UnsubscribeURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "New quote request from " + data.ClientName, HTML: html}, nil
}

// InvoicePaidEmail notifies the contractor that a client marked an invoice paid
func InvoicePaidEmail(to string, data NotificationData) (Message, error) {
	body, err := renderNotificationBody(notificationBodyData{
		NotificationData: data,
		Lead:             fmt.Sprintf("%s marked invoice %s as paid.", data.ClientName, data.DocumentName),
		ActionLabel:      "View invoice",
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title:          "Invoice paid",
		Body:           body,
		UnsubscribeURL: data.UnsubscribeURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Invoice " + data.DocumentName + " was paid", HTML: html}, nil
}

// PaymentFailedEmail is the dunning notice sent when a subscription charge fails
func PaymentFailedEmail(to string, data NotificationData) (Message, error) {
	body, err := renderNotificationBody(notificationBodyData{
		NotificationData: data,
		Lead:             "We could not process your subscription payment. Please update your payment method to keep your account active.",
		ActionLabel:      "Update payment method",
	})
	if err != nil {
		return Message{}, err
	}
	html, err := renderLayout(layoutData{
		Title: "Payment failed",
		Body:  body,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Action needed: subscription payment failed", HTML: html}, nil
}

// ContactEmail forwards a contact form submission to the operator inbox
func ContactEmail(to string, data ContactData) (Message, error) {
	var buf bytes.Buffer
	if err := contactBodyTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("email: failed to render template: %w", err)
	}
	html, err := renderLayout(layoutData{
		Title: "Contact form",
		Body:  template.HTML(buf.String()),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Contact form message from " + data.Name,
		ReplyTo: data.Email,
		HTML:    html,
	}, nil
}
