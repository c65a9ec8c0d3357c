package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/outfithaven/storefront-api/internal/mailer"
	"github.com/outfithaven/storefront-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Role        string          `json:"role"`
	Birthdate   *time.Time      `json:"birthdate,omitempty"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	Address     AddressResponse `json:"address"`
}

// UpdateAddressRequest accepts both the canonical field names and the
// aliases the storefront client sends (region for state, postal_code for
// zip_code). Aliases are resolved here, once, at the boundary.
type UpdateAddressRequest struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Region     *string `json:"region"`
	ZipCode    *string `json:"zip_code"`
	PostalCode *string `json:"postal_code"`
}

// Apply overlays the request onto an existing address.
func (r UpdateAddressRequest) Apply(a *model.Address) {
	if r.Street != nil {
		a.Street = *r.Street
	}
	if r.City != nil {
		a.City = *r.City
	}
	if r.State != nil {
		a.State = *r.State
	}
	if r.Region != nil {
		a.State = *r.Region
	}
	if r.ZipCode != nil {
		a.ZipCode = *r.ZipCode
	}
	if r.PostalCode != nil {
		a.ZipCode = *r.PostalCode
	}
}

type UpdateUserRequest struct {
	FirstName   *string               `json:"first_name"`
	LastName    *string               `json:"last_name"`
	Birthdate   *time.Time            `json:"birthdate"`
	PhoneNumber *string               `json:"phone_number"`
	Address     *UpdateAddressRequest `json:"address"`
}

// --- Catalog ---

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	CategorySlug string          `json:"category_slug" binding:"required"`
	Brand        string          `json:"brand" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Images       []string        `json:"images" binding:"required,min=1"`
	Sizes        []string        `json:"sizes" binding:"required,min=1"`
	Description  string          `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Images      []string         `json:"images"`
	Sizes       []string         `json:"sizes"`
	Description *string          `json:"description"`
}

type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateCategoryRequest struct {
	Title string `json:"title" binding:"required"`
	Image string `json:"image" binding:"required"`
	Slug  string `json:"link" binding:"required"`
}

type UpdateCategoryRequest struct {
	Title *string `json:"title"`
	Image *string `json:"image"`
	Slug  *string `json:"link"`
}

type CategoryResponse struct {
	ID       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Image    string            `json:"image"`
	Slug     string            `json:"link"`
	Products []ProductResponse `json:"products,omitempty"`
}

type CreateSliderRequest struct {
	Images []string `json:"images" binding:"required,min=1"`
}

type SliderResponse struct {
	ID     uuid.UUID `json:"id"`
	Images []string  `json:"images"`
}

// --- Cart ---

type AddCartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type RemoveCartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Size      string    `json:"size" binding:"required"`
}

type CartLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	Sizes     []string        `json:"sizes"`
}

type CartResponse struct {
	ID     uuid.UUID          `json:"id"`
	UserID uuid.UUID          `json:"user_id"`
	Lines  []CartLineResponse `json:"products"`
}

// --- Orders ---

type OrderLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Size      string          `json:"size" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// ShippingInfoRequest accepts the client's loose field names. Normalize
// resolves the phone/phone_number, region/state and postal_code/zip_code
// aliases into the one canonical shape that gets persisted.
type ShippingInfoRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Apartment   string `json:"apartment"`
	PostalCode  string `json:"postal_code"`
	ZipCode     string `json:"zip_code"`
	City        string `json:"city" binding:"required"`
	Region      string `json:"region"`
	State       string `json:"state"`
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phone_number"`
}

func (r ShippingInfoRequest) Normalize() model.ShippingInfo {
	s := model.ShippingInfo{
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Address:    r.Address,
		Apartment:  r.Apartment,
		PostalCode: r.PostalCode,
		City:       r.City,
		Region:     r.Region,
		Phone:      r.Phone,
	}
	if s.Phone == "" {
		s.Phone = r.PhoneNumber
	}
	if s.Region == "" {
		s.Region = r.State
	}
	if s.PostalCode == "" {
		s.PostalCode = r.ZipCode
	}
	return s
}

type CreateOrderRequest struct {
	Items        []OrderLineRequest  `json:"items" binding:"required"`
	ShippingInfo ShippingInfoRequest `json:"shipping_info" binding:"required"`
	Total        decimal.Decimal     `json:"total" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// SendOrderEmailRequest carries the already-resolved order details the
// storefront posts after a successful checkout.
type SendOrderEmailRequest struct {
	To           string              `json:"to" binding:"required,email"`
	Subject      string              `json:"subject"`
	OrderDetails mailer.OrderDetails `json:"order_details" binding:"required"`
}

type SendOrderEmailResponse struct {
	Customer mailer.Receipt `json:"customer"`
	Admin    mailer.Receipt `json:"admin"`
}

type OrderUserResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type OrderLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Images    []string        `json:"images"`
}

type ShippingInfoResponse struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	Apartment  string `json:"apartment,omitempty"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Region     string `json:"region"`
	Phone      string `json:"phone"`
}

type OrderResponse struct {
	ID           uuid.UUID            `json:"id"`
	User         OrderUserResponse    `json:"user"`
	Items        []OrderLineResponse  `json:"items"`
	ShippingInfo ShippingInfoResponse `json:"shipping_info"`
	Total        decimal.Decimal      `json:"total"`
	Status       model.OrderStatus    `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}
