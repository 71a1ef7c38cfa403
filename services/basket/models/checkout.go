package models

// CheckoutRequest is the transient body of POST /basket/checkout. Only
// UserName is required; shipping and payment fields are forwarded verbatim
// into the order payload.
type CheckoutRequest struct {
	UserName      string  `json:"userName"`
	FirstName     string  `json:"firstName,omitempty"`
	LastName      string  `json:"lastName,omitempty"`
	Email         string  `json:"email,omitempty"`
	Address       string  `json:"address,omitempty"`
	CardInfo      string  `json:"cardInfo,omitempty"`
	PaymentMethod int     `json:"paymentMethod,omitempty"`
	TotalPrice    float64 `json:"totalPrice,omitempty"`
}

// OrderPayload is the message that crosses the trust boundary on checkout:
// the checkout request merged with the basket's contents. Where the two
// collide (userName, items) the basket wins: the merge overlays basket
// fields onto the request, not the other way around.
//
// OrderDate and EventID are stamped once at publish time so redelivery of
// the same message always derives the same order key downstream.
type OrderPayload struct {
	UserName      string       `json:"userName"`
	TotalPrice    float64      `json:"totalPrice"`
	FirstName     string       `json:"firstName,omitempty"`
	LastName      string       `json:"lastName,omitempty"`
	Email         string       `json:"email,omitempty"`
	Address       string       `json:"address,omitempty"`
	CardInfo      string       `json:"cardInfo,omitempty"`
	PaymentMethod int          `json:"paymentMethod,omitempty"`
	Items         []BasketItem `json:"items"`
	OrderDate     string       `json:"orderDate"`
	EventID       string       `json:"eventId,omitempty"`
}

// BuildOrderPayload merges req and basket into the payload published on
// checkout. totalPrice is the plain sum of line prices; quantity is carried
// on each item but deliberately left out of the total.
func BuildOrderPayload(req CheckoutRequest, basket *Basket, orderDate, eventID string) OrderPayload {
	return OrderPayload{
		UserName:      basket.UserName,
		TotalPrice:    basket.TotalPrice(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Address:       req.Address,
		CardInfo:      req.CardInfo,
		PaymentMethod: req.PaymentMethod,
		Items:         basket.Items,
		OrderDate:     orderDate,
		EventID:       eventID,
	}
}
