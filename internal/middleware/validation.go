package middleware

import (
	"encoding/json"
	"net/http"

	"catalog-api/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Catalog-specific formats the standard tags cannot express.
	validate.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return domain.ValidateSKU(fl.Field().String()) == nil
	})
	validate.RegisterValidation("seller_domain", func(fl validator.FieldLevel) bool {
		return domain.SellerDomainAllowed(fl.Field().String())
	})
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errors
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL format"
	case "uuid":
		return "Invalid UUID format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	case "eq":
		return "Value must be " + e.Param()
	case "sku":
		return "SKU must contain '-' and end with a 3-digit number like -123"
	case "seller_domain":
		return "Seller email domain not allowed"
	default:
		return "Invalid value"
	}
}
