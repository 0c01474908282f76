package domain

import "github.com/google/uuid"

// OrderItem: строка заказа.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"` // Не меньше 1
}

// CreateOrder: payload формы создания заказа.
type CreateOrder struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	Items      []OrderItem `json:"items"` // Минимум одна позиция
}
