package events

import "encoding/json"

// Event source / detail-type pair published on basket checkout. The
// EventBridge rule that feeds the order queue matches on exactly this pair;
// a mismatch means the event is silently dropped by the bus, so these
// strings are part of the provisioning contract, not free-form metadata.
const (
	CheckoutSource     = "com.swn.basket.checkoutbasket"
	CheckoutDetailType = "CheckoutBasket"
)

// Envelope is the typed wrapper that crosses the trust boundary: who
// produced the event (Source), what schema the payload follows
// (DetailType), and the serialized payload itself (Detail).
type Envelope struct {
	ID         string          `json:"id,omitempty"`
	Source     string          `json:"source"`
	DetailType string          `json:"detailType"`
	Detail     json.RawMessage `json:"detail"`
}
