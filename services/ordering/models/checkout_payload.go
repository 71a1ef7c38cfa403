package models

// CheckoutPayload is the wire shape of the message the basket service
// publishes on checkout. The ordering service keeps its own copy of the
// schema: the queue is the contract between the two services, not a shared
// Go type.
type CheckoutPayload struct {
	UserName      string      `json:"userName"`
	TotalPrice    float64     `json:"totalPrice"`
	FirstName     string      `json:"firstName,omitempty"`
	LastName      string      `json:"lastName,omitempty"`
	Email         string      `json:"email,omitempty"`
	Address       string      `json:"address,omitempty"`
	CardInfo      string      `json:"cardInfo,omitempty"`
	PaymentMethod int         `json:"paymentMethod,omitempty"`
	Items         []OrderItem `json:"items"`
	OrderDate     string      `json:"orderDate"`
	EventID       string      `json:"eventId,omitempty"`
}

// ToOrder maps the payload onto the durable order record. The key fields
// come straight from the payload contents.
func (p *CheckoutPayload) ToOrder() *Order {
	return &Order{
		UserName:      p.UserName,
		OrderDate:     p.OrderDate,
		TotalPrice:    p.TotalPrice,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		Address:       p.Address,
		CardInfo:      p.CardInfo,
		PaymentMethod: p.PaymentMethod,
		Items:         p.Items,
		EventID:       p.EventID,
	}
}
