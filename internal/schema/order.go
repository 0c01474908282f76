package schema

import "github.com/xela07ax/bizdash/internal/domain"

// Сообщения формы заказа показываются пользователю как есть.
const (
	MsgInvalidProductID  = "ID do produto inválido"
	MsgQuantityTooSmall  = "A quantidade deve ser pelo menos 1"
	MsgInvalidCustomerID = "Selecione um cliente válido"
	MsgItemsRequired     = "O pedido deve ter pelo menos um item"
)

// ParseOrderItem проверяет одну строку заказа.
func ParseOrderItem(input any) (domain.OrderItem, error) {
	return run(EntityOrderItem, input, parseOrderItem)
}

// ParseCreateOrder проверяет payload создания заказа, включая все позиции.
func ParseCreateOrder(input any) (domain.CreateOrder, error) {
	return run(EntityCreateOrder, input, parseCreateOrder)
}

func parseOrderItem(c *checker, path Path, v any) domain.OrderItem {
	o, ok := c.object(path, v)
	if !ok {
		return domain.OrderItem{}
	}
	return domain.OrderItem{
		ProductID: o.uuidField("product_id", MsgInvalidProductID),
		Quantity:  o.integer("quantity", gte(1, MsgQuantityTooSmall)),
	}
}

func parseCreateOrder(c *checker, path Path, v any) domain.CreateOrder {
	o, ok := c.object(path, v)
	if !ok {
		return domain.CreateOrder{}
	}
	order := domain.CreateOrder{
		CustomerID: o.uuidField("customer_id", MsgInvalidCustomerID),
	}
	raw, itemsPath := o.array("items", 1, MsgItemsRequired)
	order.Items = make([]domain.OrderItem, 0, len(raw))
	for i, item := range raw {
		order.Items = append(order.Items, parseOrderItem(c, itemsPath.With(i), item))
	}
	return order
}
