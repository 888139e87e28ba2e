// Package queue defines message payloads exchanged over the message broker.
package queue

// ReceiptIssuedEvent is published when a seat allocation succeeds.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type ReceiptIssuedEvent struct {
    ReceiptID   uint64  `json:"receipt_id"`
    UserID      uint64  `json:"user_id"`
    Email       string  `json:"email"`
    SeatNumber  int     `json:"seat_number"`
    Section     string  `json:"section"`
    FromStation string  `json:"from"`
    ToStation   string  `json:"to"`
    Price       float64 `json:"price"`
    IssuedAt    string  `json:"issued_at"`
}
