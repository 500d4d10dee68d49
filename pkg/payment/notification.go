package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Status collapses the gateway's transaction statuses into the three
// outcomes the storefront acts on.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

// Notification is the callback body the gateway posts after a payment
// attempt.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

// Result is the verified, normalized outcome of a notification.
type Result struct {
	OrderID   string
	Status    Status
	RawStatus string
}

// VerifySignature checks the SHA-512 signature the gateway computes over
// order_id + status_code + gross_amount + server key.
func (n Notification) VerifySignature(serverKey string) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// Result maps the raw transaction status to the three-variant outcome.
// A challenged capture stays pending until the gateway settles it.
func (n Notification) Result() Result {
	r := Result{OrderID: n.OrderID, RawStatus: n.TransactionStatus}
	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "challenge" {
			r.Status = StatusPending
		} else {
			r.Status = StatusSuccess
		}
	case "settlement":
		r.Status = StatusSuccess
	case "pending":
		r.Status = StatusPending
	default:
		r.Status = StatusFailed
	}
	return r
}
