package models

// BasketItem is one line in a basket. Price is the line's scalar price; the
// checkout total sums these as-is, without multiplying by Quantity.
type BasketItem struct {
	ProductID   string  `json:"productId" dynamodbav:"productId"`
	ProductName string  `json:"productName" dynamodbav:"productName"`
	Quantity    int     `json:"quantity" dynamodbav:"quantity"`
	Color       string  `json:"color" dynamodbav:"color"`
	Price       float64 `json:"price" dynamodbav:"price"`
}

// Basket holds one user's accumulated items. There is at most one basket per
// userName; creating a basket for an existing user overwrites it whole.
type Basket struct {
	UserName string       `json:"userName" dynamodbav:"userName"`
	Items    []BasketItem `json:"items" dynamodbav:"items"`
}

// TotalPrice sums each line item's price.
func (b *Basket) TotalPrice() float64 {
	var total float64
	for _, item := range b.Items {
		total += item.Price
	}
	return total
}
