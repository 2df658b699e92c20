package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chiquebutik/butik/pkg/validate"
)

type contactInput struct {
	Name    string `json:"name"    validate:"required,max=120"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,max=5000"`
}

type lineInput struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"gte=1,lte=99"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(contactInput{
		Name:    "Anna",
		Email:   "anna@example.se",
		Subject: "Storlek",
		Message: "Finns klänningen i M?",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFieldsUseJSONNames(t *testing.T) {
	errs := validate.Struct(contactInput{})

	assert.True(t, validate.HasErrors(errs))
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "email is required", errs["email"])
	assert.Contains(t, errs, "subject")
	assert.Contains(t, errs, "message")
}

func TestEmailAndBounds(t *testing.T) {
	errs := validate.Struct(contactInput{Name: "A", Email: "not-an-email", Subject: "s", Message: "m"})
	assert.Equal(t, "email must be a valid email address", errs["email"])

	errs = validate.Struct(lineInput{ProductID: 1, Quantity: 0})
	assert.Equal(t, "quantity must be at least 1", errs["quantity"])

	errs = validate.Struct(lineInput{ProductID: 1, Quantity: 100})
	assert.Equal(t, "quantity must be at most 99", errs["quantity"])
}

func TestVar(t *testing.T) {
	assert.NoError(t, validate.Var("kund@chiquebutik.se", "required,email"))
	assert.Error(t, validate.Var("kund@", "required,email"))
}
