package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mobilemart/server/pkg/validate"
)

type listingInput struct {
	Name  string  `json:"name" validate:"required,min=2,max=10"`
	Email string  `json:"email" validate:"required,email"`
	Price float64 `json:"price" validate:"required,gt=0"`
	Image string  `json:"image" validate:"nullable,url"`
	Role  string  `json:"role" validate:"nullable,in=buyer,seller,admin"`
}

func TestStruct_Valid(t *testing.T) {
	errs := validate.Struct(&listingInput{
		Name:  "iPhone",
		Email: "seller@example.com",
		Price: 199.99,
	})
	assert.False(t, validate.HasErrors(errs))
}

func TestStruct_Required(t *testing.T) {
	errs := validate.Struct(&listingInput{Email: "seller@example.com", Price: 10})
	assert.Contains(t, errs, "name")
}

func TestStruct_Email(t *testing.T) {
	errs := validate.Struct(&listingInput{Name: "iPhone", Email: "not-an-email", Price: 10})
	assert.Contains(t, errs, "email")
}

func TestStruct_GtRejectsZeroAndNegative(t *testing.T) {
	for _, price := range []float64{0, -5} {
		errs := validate.Struct(&listingInput{Name: "iPhone", Email: "s@example.com", Price: price})
		assert.Contains(t, errs, "price")
	}
}

func TestStruct_MinMaxOnStrings(t *testing.T) {
	errs := validate.Struct(&listingInput{Name: "x", Email: "s@example.com", Price: 10})
	assert.Contains(t, errs, "name")

	errs = validate.Struct(&listingInput{Name: "waaaaaay too long", Email: "s@example.com", Price: 10})
	assert.Contains(t, errs, "name")
}

func TestStruct_NullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(&listingInput{Name: "iPhone", Email: "s@example.com", Price: 10, Image: ""})
	assert.False(t, validate.HasErrors(errs))
}

func TestStruct_URL(t *testing.T) {
	errs := validate.Struct(&listingInput{Name: "iPhone", Email: "s@example.com", Price: 10, Image: "nope"})
	assert.Contains(t, errs, "image")

	errs = validate.Struct(&listingInput{Name: "iPhone", Email: "s@example.com", Price: 10, Image: "https://cdn.example.com/a.png"})
	assert.False(t, validate.HasErrors(errs))
}

func TestStruct_InListIsCaseInsensitive(t *testing.T) {
	errs := validate.Struct(&listingInput{Name: "iPhone", Email: "s@example.com", Price: 10, Role: "Seller"})
	assert.False(t, validate.HasErrors(errs))

	errs = validate.Struct(&listingInput{Name: "iPhone", Email: "s@example.com", Price: 10, Role: "superuser"})
	assert.Contains(t, errs, "role")
}

func TestStruct_FirstFailingRuleWins(t *testing.T) {
	errs := validate.Struct(&listingInput{Name: "", Email: "", Price: 0})
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestStruct_NonStructIsANoop(t *testing.T) {
	assert.False(t, validate.HasErrors(validate.Struct("just a string")))
}
