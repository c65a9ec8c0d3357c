package mailer

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	sendCalls   int
	verifyCalls int
	failFirst   int
	failAlways  bool
	lastMsg     Message
}

var errTransportDown = errors.New("transport down")

func (f *fakeTransport) Send(_ context.Context, msg Message) error {
	f.sendCalls++
	f.lastMsg = msg
	if f.failAlways || f.sendCalls <= f.failFirst {
		return errTransportDown
	}
	return nil
}

func (f *fakeTransport) Verify(_ context.Context) error {
	f.verifyCalls++
	if f.failAlways || f.verifyCalls <= f.failFirst {
		return errTransportDown
	}
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func detailsFixture() OrderDetails {
	return OrderDetails{
		OrderID: "OH-1042",
		Customer: CustomerDetails{
			Name: "Ana Reyes", Email: "ana@example.com",
			Phone: "09170000000", Address: "12 Mabini St, Manila",
		},
		Items: []LineDetails{
			{Name: "Oxford Shirt", Size: "M", Quantity: 2,
				Price: decimal.NewFromInt(600), Total: decimal.NewFromInt(1200)},
		},
		Subtotal: decimal.NewFromInt(1200),
		Shipping: decimal.NewFromInt(100),
		Total:    decimal.NewFromInt(1300),
	}
}

func newTestDispatcher(transport Transport) *Dispatcher {
	return NewDispatcher(transport, 3, time.Millisecond, slog.Default())
}

func TestDispatcher_SendOrderConfirmation(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(transport)

	receipt, err := d.SendOrderConfirmation(context.Background(), "ana@example.com", "", detailsFixture())
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Attempts)
	assert.Equal(t, "Order Confirmation #OH-1042", receipt.Subject)
	assert.Contains(t, transport.lastMsg.Text, "Oxford Shirt")
	assert.Contains(t, transport.lastMsg.HTML, "Oxford Shirt")
}

func TestDispatcher_RetriesUntilSuccess(t *testing.T) {
	transport := &fakeTransport{failFirst: 2}
	d := newTestDispatcher(transport)

	receipt, err := d.SendOrderConfirmation(context.Background(), "ana@example.com", "", detailsFixture())
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.Attempts)
}

func TestDispatcher_ExhaustsRetryBudget(t *testing.T) {
	transport := &fakeTransport{failAlways: true}
	d := newTestDispatcher(transport)

	_, err := d.SendOrderConfirmation(context.Background(), "ana@example.com", "", detailsFixture())
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	// one initial attempt plus three retries
	assert.Equal(t, 4, transport.sendCalls)
}

func TestDispatcher_RejectsEmptyItems(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(transport)

	details := detailsFixture()
	details.Items = nil
	_, err := d.SendOrderConfirmation(context.Background(), "ana@example.com", "", details)
	assert.ErrorIs(t, err, ErrInvalidDetails)
	assert.Zero(t, transport.sendCalls)
}

func TestDispatcher_CustomSubject(t *testing.T) {
	transport := &fakeTransport{}
	d := newTestDispatcher(transport)

	receipt, err := d.SendOrderConfirmation(context.Background(), "ana@example.com", "[ADMIN COPY] Order Confirmation #OH-1042", detailsFixture())
	require.NoError(t, err)
	assert.Equal(t, "[ADMIN COPY] Order Confirmation #OH-1042", receipt.Subject)
}

func TestDispatcher_VerifyTransport(t *testing.T) {
	transport := &fakeTransport{failFirst: 1}
	d := newTestDispatcher(transport)
	require.NoError(t, d.VerifyTransport(context.Background()))
	assert.Equal(t, 2, transport.verifyCalls)
}

func TestDispatcher_VerifyTransportFails(t *testing.T) {
	transport := &fakeTransport{failAlways: true}
	d := newTestDispatcher(transport)
	err := d.VerifyTransport(context.Background())
	assert.ErrorIs(t, err, ErrVerifyFailed)
	assert.Equal(t, 4, transport.verifyCalls)
}

func TestConfirmationSubject(t *testing.T) {
	assert.Equal(t, "Order Confirmation #OH-1042", ConfirmationSubject("OH-1042", ""))
	assert.Equal(t, "[ADMIN COPY] Order Confirmation #OH-1042",
		ConfirmationSubject("OH-1042", "[ADMIN COPY] Order Confirmation #OH-1042"))
}

func TestRenderText_Totals(t *testing.T) {
	text := renderText(detailsFixture())
	assert.Contains(t, text, "Subtotal: ₱1200.00")
	assert.Contains(t, text, "Shipping: ₱100.00")
	assert.Contains(t, text, "Total: ₱1300.00")
}
