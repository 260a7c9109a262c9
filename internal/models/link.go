package models

// Link statuses. Only StatusPending and StatusPaid are ever persisted;
// StatusExpired is derived at read time from ExpiresAt.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusExpired = "expired"
)

// Currency is fixed for every link.
const Currency = "USD"

// PaymentLink represents a payment link document in the MongoDB database.
// Timestamps are epoch milliseconds to match the public API contract.
type PaymentLink struct {
	ID          string  `bson:"_id,omitempty" json:"id"`
	Amount      float64 `bson:"amount" json:"amount"`
	Currency    string  `bson:"currency" json:"currency"`
	Description string  `bson:"description" json:"description"`
	Status      string  `bson:"status" json:"status"` // "pending" or "paid" in storage
	CreatedAt   int64   `bson:"created_at" json:"createdAt"`
	ExpiresAt   *int64  `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
}

// Resolved returns the link as seen at the given time: a pending link
// whose expiry has passed reads as expired. The stored record is never
// modified; every read path applies this transform and no write does.
func (p PaymentLink) Resolved(nowMillis int64) PaymentLink {
	if p.Status == StatusPending && p.ExpiresAt != nil && *p.ExpiresAt < nowMillis {
		p.Status = StatusExpired
	}
	return p
}
