package models

import "strings"

// OrderRecord es una fila del batch de pedidos, ya parseada y recortada
// por el lector de CSV. order_number y shop_number son obligatorios;
// el resto es opcional.
type OrderRecord struct {
	OrderNumber string
	ShopNumber  string
	Identifier  string
	SecureID    string // requerido para la descarga
	CeweOrderID string // override opcional del id usado en la descarga
	OutputPath  string // destino explícito opcional
}

// Valid indica si la fila puede procesarse.
func (o OrderRecord) Valid() bool {
	return strings.TrimSpace(o.OrderNumber) != "" && strings.TrimSpace(o.ShopNumber) != ""
}

// FullOrderID construye la clave compuesta que acepta la API de estado.
// Si el número de pedido ya viene en formato completo (12 dígitos con guión,
// ej. "541032-050842") se usa tal cual; si no, se compone "{shop}-{order}".
func FullOrderID(orderNumber, shopNumber string) string {
	if strings.Contains(orderNumber, "-") && len(strings.ReplaceAll(orderNumber, "-", "")) == 12 {
		return orderNumber
	}
	return shopNumber + "-" + orderNumber
}
