package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDetails = errors.New("invalid order details")
	ErrDeliveryFailed = errors.New("delivery failed")
	ErrVerifyFailed   = errors.New("transport verification failed")
)

// Message is a rendered mail ready for a transport.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers messages. The SMTP implementation lives in smtp.go;
// tests substitute their own.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Verify(ctx context.Context) error
	Close() error
}

// OrderDetails is the single source both renderings are generated from.
type OrderDetails struct {
	OrderID  string          `json:"order_id"`
	Customer CustomerDetails `json:"customer"`
	Items    []LineDetails   `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type LineDetails struct {
	Name     string          `json:"name"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Receipt reports a successful delivery.
type Receipt struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Attempts int    `json:"attempts"`
}

// Dispatcher sends order confirmations over an injected transport with a
// bounded retry policy: one initial attempt plus a fixed number of retries
// with a fixed delay in between. No backoff, no jitter.
type Dispatcher struct {
	transport Transport
	retries   int
	delay     time.Duration
	log       *slog.Logger
}

func NewDispatcher(transport Transport, retries int, delay time.Duration, log *slog.Logger) *Dispatcher {
	return &Dispatcher{transport: transport, retries: retries, delay: delay, log: log}
}

// VerifyTransport checks transport reachability with the same retry policy
// as sending. Callers treat a failure as non-fatal.
func (d *Dispatcher) VerifyTransport(ctx context.Context) error {
	err := d.withRetry(ctx, func() error { return d.transport.Verify(ctx) })
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	d.log.Info("mail transport verified")
	return nil
}

// ConfirmationSubject returns the subject line for an order confirmation,
// falling back to the standard one when override is empty. The fallback
// lives here, once, so a caller prefixing or echoing the subject always
// agrees with what the dispatcher sends.
func ConfirmationSubject(orderID, override string) string {
	if override != "" {
		return override
	}
	return "Order Confirmation #" + orderID
}

func (d *Dispatcher) SendOrderConfirmation(ctx context.Context, to, subject string, details OrderDetails) (*Receipt, error) {
	if len(details.Items) == 0 {
		return nil, fmt.Errorf("%w: missing items", ErrInvalidDetails)
	}
	subject = ConfirmationSubject(details.OrderID, subject)

	html, err := renderHTML(details)
	if err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}
	msg := Message{
		To:      to,
		Subject: subject,
		Text:    renderText(details),
		HTML:    html,
	}

	attempts := 0
	err = d.withRetry(ctx, func() error {
		attempts++
		return d.transport.Send(ctx, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: send to %s: %v", ErrDeliveryFailed, to, err)
	}

	d.log.Info("confirmation sent", "to", to, "attempts", attempts)
	return &Receipt{To: to, Subject: subject, Attempts: attempts}, nil
}

func (d *Dispatcher) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			d.log.Warn("mail attempt failed, retrying", "attempts_left", d.retries-attempt+1, "error", err)
			select {
			case <-time.After(d.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

func renderText(details OrderDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Confirmation #%s\n\n", details.OrderID)
	fmt.Fprintf(&b, "Customer: %s\n", details.Customer.Name)
	fmt.Fprintf(&b, "Email: %s\n", details.Customer.Email)
	fmt.Fprintf(&b, "Phone: %s\n", details.Customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n\n", details.Customer.Address)
	b.WriteString("Items:\n")
	for _, item := range details.Items {
		fmt.Fprintf(&b, "- %s (%s) x%d ₱%s\n", item.Name, item.Size, item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: ₱%s\n", details.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Shipping: ₱%s\n", details.Shipping.StringFixed(2))
	fmt.Fprintf(&b, "Total: ₱%s\n\n", details.Total.StringFixed(2))
	b.WriteString("Thank you for shopping with OutfitHaven!")
	return b.String()
}

var htmlTmpl = template.Must(template.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2563eb;">Order Confirmation</h1>
  <h2>Order #{{.OrderID}}</h2>

  <h3 style="border-bottom: 1px solid #ddd; padding-bottom: 8px;">Customer Details</h3>
  <p><strong>Name:</strong> {{.Customer.Name}}</p>
  <p><strong>Email:</strong> {{.Customer.Email}}</p>
  <p><strong>Phone:</strong> {{.Customer.Phone}}</p>
  <p><strong>Address:</strong> {{.Customer.Address}}</p>

  <h3 style="border-bottom: 1px solid #ddd; padding-bottom: 8px;">Order Summary</h3>
  <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
    <thead>
      <tr style="background-color: #f3f4f6;">
        <th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Product</th>
        <th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Qty</th>
        <th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Price</th>
        <th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}<tr>
        <td>{{.Name}} ({{.Size}})</td>
        <td>{{.Quantity}}</td>
        <td>₱{{.Price.StringFixed 2}}</td>
        <td>₱{{.Total.StringFixed 2}}</td>
      </tr>{{end}}
    </tbody>
  </table>

  <div style="margin-top: 20px; font-size: 16px;">
    <p><strong>Subtotal:</strong> ₱{{.Subtotal.StringFixed 2}}</p>
    <p><strong>Shipping:</strong> ₱{{.Shipping.StringFixed 2}}</p>
    <p style="font-weight: bold; font-size: 18px;"><strong>Total:</strong> ₱{{.Total.StringFixed 2}}</p>
  </div>

  <p style="margin-top: 30px; color: #6b7280;">Thank you for shopping with OutfitHaven!</p>
</div>`))

func renderHTML(details OrderDetails) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, details); err != nil {
		return "", err
	}
	return buf.String(), nil
}
