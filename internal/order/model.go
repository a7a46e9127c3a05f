package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCOD    PaymentMethod = "COD"
	MethodOnline PaymentMethod = "ONLINE"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Source records where the order's lines came from; only cart orders clear the cart.
type Source string

const (
	SourceCart   Source = "cart"
	SourceDirect Source = "direct"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// Address is the shipping snapshot copied onto the order.
type Address struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
	Tag    string `json:"tag,omitempty"`
}

// Contact is the buyer snapshot used for gateway params and notifications.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Items            []Item          `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Shipping         decimal.Decimal `json:"shipping"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	Status           Status          `json:"orderStatus"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	TxnID            *string         `json:"txnId"`
	GatewayPaymentID *string         `json:"gatewayPaymentId"`
	ShippingAddress  Address         `json:"shippingAddress"`
	Contact          Contact         `json:"contact"`
	Source           Source          `json:"source"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
}

// Summary is the list view of an order.
type Summary struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Email         string          `json:"email,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"orderStatus"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	ItemCount     int             `json:"itemCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}
