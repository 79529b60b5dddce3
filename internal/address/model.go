package address

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

// Address is a delivery address owned by one user.
// swagger:model
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	RecipientName string    `json:"recipientName" example:"Ana Quispe"`
	Phone         string    `json:"phone"         example:"+51 999 888 777"`
	LineOne       string    `json:"lineOne"       example:"Av. Larco 123, Miraflores"`
	LineTwo       string    `json:"lineTwo,omitempty" example:"Dpto. 402"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Fields are the mutable parts of an address, used for create and full update.
// swagger:model AddressRequest
type Fields struct {
	RecipientName string `json:"recipientName" validate:"required,max=120"       example:"Ana Quispe"`
	Phone         string `json:"phone"         validate:"required,phone"         example:"+51 999 888 777"`
	LineOne       string `json:"lineOne"       validate:"required,max=255"       example:"Av. Larco 123, Miraflores"`
	LineTwo       string `json:"lineTwo"       validate:"max=255"                example:"Dpto. 402"`
	IsDefault     bool   `json:"isDefault"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError lists the offending fields and the rule each one broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, rule := range e.Fields {
		parts = append(parts, f+":"+rule)
	}
	return "invalid address: " + strings.Join(parts, ", ")
}

func (e *ValidationError) ErrorKind() apperr.Kind { return apperr.KindValidation }
func (e *ValidationError) ErrorCode() string      { return "invalid_address_fields" }
func (e *ValidationError) Details() map[string]any {
	return map[string]any{"fields": e.Fields}
}

// Normalize trims surrounding whitespace from every text field.
func (f Fields) Normalize() Fields {
	f.RecipientName = strings.TrimSpace(f.RecipientName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.LineOne = strings.TrimSpace(f.LineOne)
	f.LineTwo = strings.TrimSpace(f.LineTwo)
	return f
}

// Validate checks the normalized fields.
func (f Fields) Validate() error {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errors.Wrap(err, "validate address")
	}
	out := &ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		out.Fields[jsonName(fe.Field())] = fe.Tag()
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
