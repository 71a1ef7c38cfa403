package models

// Product is the catalog record behind basket line items. ID is a
// server-assigned uuid; clients never choose product ids.
type Product struct {
	ID          string  `json:"id" dynamodbav:"id"`
	Name        string  `json:"name" dynamodbav:"name"`
	Description string  `json:"description,omitempty" dynamodbav:"description,omitempty"`
	ImageFile   string  `json:"imageFile,omitempty" dynamodbav:"imageFile,omitempty"`
	Category    string  `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Price       float64 `json:"price" dynamodbav:"price"`
}

// ProductUpdate carries the fields of a partial product update. Nil fields
// are left untouched in the stored record.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageFile   *string  `json:"imageFile,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}
