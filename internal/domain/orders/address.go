package orders

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// One human-readable message per required field, keyed by struct field name.
var requiredMessages = map[string]string{
	"FirstName":    "First name is required",
	"LastName":     "Last name is required",
	"AddressLine1": "Address line 1 is required",
	"City":         "City is required",
	"State":        "State is required",
	"PostalCode":   "Postal code is required",
	"Country":      "Country is required",
}

// ValidateShippingAddress returns one message per violated field, in struct
// field order. An empty slice means the address is acceptable.
func ValidateShippingAddress(addr ShippingAddress) []string {
	err := validate.Struct(addr)
	if err == nil {
		return nil
	}

	var msgs []string
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Shipping address is invalid"}
	}
	for _, fe := range verrs {
		if msg, ok := requiredMessages[fe.StructField()]; ok {
			msgs = append(msgs, msg)
		} else {
			msgs = append(msgs, fe.StructField()+" is invalid")
		}
	}
	return msgs
}

// HashEmail returns the SHA-256 of the email as 64 lowercase hex chars.
// This is the only form of the email that may ever be stored or returned.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
