package models

// OrderItem mirrors the basket line item carried through the checkout event.
type OrderItem struct {
	ProductID   string  `json:"productId" dynamodbav:"productId"`
	ProductName string  `json:"productName" dynamodbav:"productName"`
	Quantity    int     `json:"quantity" dynamodbav:"quantity"`
	Color       string  `json:"color" dynamodbav:"color"`
	Price       float64 `json:"price" dynamodbav:"price"`
}

// Order is the durable record produced from a checkout event. The
// (UserName, OrderDate) pair is the primary key; OrderDate comes from the
// message payload, never from consume-time wall clock, so redelivering the
// same message overwrites the same record instead of creating a duplicate.
type Order struct {
	UserName      string      `json:"userName" dynamodbav:"userName"`
	OrderDate     string      `json:"orderDate" dynamodbav:"orderDate"`
	TotalPrice    float64     `json:"totalPrice" dynamodbav:"totalPrice"`
	FirstName     string      `json:"firstName,omitempty" dynamodbav:"firstName,omitempty"`
	LastName      string      `json:"lastName,omitempty" dynamodbav:"lastName,omitempty"`
	Email         string      `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Address       string      `json:"address,omitempty" dynamodbav:"address,omitempty"`
	CardInfo      string      `json:"cardInfo,omitempty" dynamodbav:"cardInfo,omitempty"`
	PaymentMethod int         `json:"paymentMethod,omitempty" dynamodbav:"paymentMethod,omitempty"`
	Items         []OrderItem `json:"items" dynamodbav:"items"`
	EventID       string      `json:"eventId,omitempty" dynamodbav:"eventId,omitempty"`
}
