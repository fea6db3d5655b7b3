package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types carried on the ledger queue.
const (
	TypePaymentRecorded = "payment.recorded"
	TypeBillDeleted     = "bill.deleted"
)

// Event is the envelope for ledger messages. Payload decoding depends on
// Type.
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// PaymentRecorded announces that an immediate payment was applied to a bill.
// PaidAt is a full timestamp, matching the bill's payment history entries.
type PaymentRecorded struct {
	BillID         int64     `json:"bill_id"`
	BillName       string    `json:"bill_name"`
	AmountCents    int64     `json:"amount_cents"`
	RemainingCents int64     `json:"remaining_cents"`
	PaidAt         time.Time `json:"paid_at"`
}

// BillDeleted announces that a bill and its scheduled payments were removed.
type BillDeleted struct {
	BillID int64 `json:"bill_id"`
}

// NewEvent wraps a payload into an envelope.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes
func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// PaymentRecorded decodes the payload of a payment.recorded event.
func (e Event) PaymentRecorded() (PaymentRecorded, error) {
	if e.Type != TypePaymentRecorded {
		return PaymentRecorded{}, fmt.Errorf("event type %q is not %s", e.Type, TypePaymentRecorded)
	}
	var p PaymentRecorded
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return PaymentRecorded{}, fmt.Errorf("decode payment payload: %w", err)
	}
	return p, nil
}

// BillDeleted decodes the payload of a bill.deleted event.
func (e Event) BillDeleted() (BillDeleted, error) {
	if e.Type != TypeBillDeleted {
		return BillDeleted{}, fmt.Errorf("event type %q is not %s", e.Type, TypeBillDeleted)
	}
	var b BillDeleted
	if err := json.Unmarshal(e.Payload, &b); err != nil {
		return BillDeleted{}, fmt.Errorf("decode bill payload: %w", err)
	}
	return b, nil
}
