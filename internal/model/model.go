package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

type User struct {
	ID          uuid.UUID
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        string
	Birthdate   *time.Time
	PhoneNumber string
	Address     Address
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID        uuid.UUID
	Title     string
	Image     string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Brand       string
	Price       decimal.Decimal
	Images      []string
	Sizes       []string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Slider struct {
	ID        uuid.UUID
	Images    []string
	CreatedAt time.Time
}

type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one (product, size) entry in a cart. Name, Price, Images and
// Sizes are display fields resolved from the catalog on read; they are not
// stored with the line.
type CartLine struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
	AddedAt   time.Time
	Name      string
	Price     decimal.Decimal
	Images    []string
	Sizes     []string
}

// ShippingInfo is the snapshot embedded in an order at checkout.
type ShippingInfo struct {
	Email      string
	FirstName  string
	LastName   string
	Address    string
	Apartment  string
	PostalCode string
	City       string
	Region     string
	Phone      string
}

// OrderLine carries the price captured at order time, never re-derived.
// Name and Images are display projections resolved on read.
type OrderLine struct {
	ProductID uuid.UUID
	Size      string
	Quantity  int
	Price     decimal.Decimal
	Name      string
	Images    []string
}

type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Lines     []OrderLine
	Shipping  ShippingInfo
	Total     decimal.Decimal
	Status    OrderStatus
	CreatedAt time.Time
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether an order may move from s to next.
// Delivered and cancelled are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// OrderPlaced is published to the fulfillment queue after checkout.
type OrderPlaced struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
