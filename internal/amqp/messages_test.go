package amqp

import (
	"testing"
	"time"
)

func TestPaymentRecordedEventRoundTrip(t *testing.T) {
	paidAt := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	event, err := NewEvent(TypePaymentRecorded, PaymentRecorded{
		BillID:         7,
		BillName:       "Car loan",
		AmountCents:    5000,
		RemainingCents: -2000,
		PaidAt:         paidAt,
	})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := EventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	p, err := decoded.PaymentRecorded()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.BillID != 7 || p.AmountCents != 5000 || p.RemainingCents != -2000 {
		t.Fatalf("payload mismatch: %+v", p)
	}
	if !p.PaidAt.Equal(paidAt) {
		t.Fatalf("paid_at = %v", p.PaidAt)
	}
}

func TestEventTypeMismatch(t *testing.T) {
	event, err := NewEvent(TypeBillDeleted, BillDeleted{BillID: 3})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if _, err := event.PaymentRecorded(); err == nil {
		t.Fatalf("expected type mismatch error")
	}
	b, err := event.BillDeleted()
	if err != nil || b.BillID != 3 {
		t.Fatalf("bill payload = %+v (err=%v)", b, err)
	}
}

func TestEventFromJSONGarbage(t *testing.T) {
	if _, err := EventFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
