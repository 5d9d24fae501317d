package order

import "time"

const (
	TypeOnline = "online"
	TypePickup = "pickup"
)

type Item struct {
	ProductID    string  `bson:"product_id" json:"product_id"`
	ProductName  string  `bson:"product_name" json:"product_name"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	Price        float64 `bson:"price" json:"price"`
	PulperiaID   string  `bson:"pulperia_id,omitempty" json:"pulperia_id,omitempty"`
	PulperiaName string  `bson:"pulperia_name,omitempty" json:"pulperia_name,omitempty"`
	ImageURL     string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

type Order struct {
	OrderID        string    `bson:"order_id" json:"order_id"`
	CustomerUserID string    `bson:"customer_user_id" json:"customer_user_id"`
	CustomerName   string    `bson:"customer_name" json:"customer_name"`
	PulperiaID     string    `bson:"pulperia_id" json:"pulperia_id"`
	Items          []Item    `bson:"items" json:"items"`
	Total          float64   `bson:"total" json:"total"`
	Status         Status    `bson:"status" json:"status"`
	OrderType      string    `bson:"order_type" json:"order_type"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
