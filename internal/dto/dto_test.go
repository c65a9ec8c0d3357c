package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outfithaven/storefront-api/internal/model"
)

func TestShippingInfoRequest_Normalize_Aliases(t *testing.T) {
	req := ShippingInfoRequest{
		Email: "ana@example.com", FirstName: "Ana", LastName: "Reyes",
		Address: "12 Mabini St", City: "Manila",
		State: "NCR", ZipCode: "1000", PhoneNumber: "09170000000",
	}

	info := req.Normalize()
	assert.Equal(t, "NCR", info.Region)
	assert.Equal(t, "1000", info.PostalCode)
	assert.Equal(t, "09170000000", info.Phone)
}

func TestShippingInfoRequest_Normalize_CanonicalWins(t *testing.T) {
	req := ShippingInfoRequest{
		Region: "NCR", State: "Metro Manila",
		PostalCode: "1000", ZipCode: "9999",
		Phone: "09170000000", PhoneNumber: "09999999999",
	}

	info := req.Normalize()
	assert.Equal(t, "NCR", info.Region)
	assert.Equal(t, "1000", info.PostalCode)
	assert.Equal(t, "09170000000", info.Phone)
}

func TestUpdateAddressRequest_Apply(t *testing.T) {
	addr := model.Address{Street: "12 Mabini St", City: "Manila", State: "NCR", ZipCode: "1000"}

	city := "Quezon City"
	postal := "1100"
	UpdateAddressRequest{City: &city, PostalCode: &postal}.Apply(&addr)

	assert.Equal(t, "Quezon City", addr.City)
	assert.Equal(t, "1100", addr.ZipCode)
	// untouched fields survive
	assert.Equal(t, "12 Mabini St", addr.Street)
	assert.Equal(t, "NCR", addr.State)
}
