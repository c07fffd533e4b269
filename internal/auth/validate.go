package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is one inline form error, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a sign-up form. It is
// recovered locally by the UI layer, never propagated further.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func checkNewAccount(na NewAccount) error {
	err := validate.Struct(na)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe.Field(), fe.Tag()),
		})
	}
	return out
}

// fieldMessage maps validation failures to the portal's form messages.
func fieldMessage(field, tag string) string {
	if tag == "required" {
		return "Aizpildi visus laukus!"
	}
	switch field {
	case "Username":
		return "Lietotājvārdam jābūt vismaz 3 simboliem."
	case "Email":
		return "Ievadi korektu e-pasta adresi."
	case "Password":
		return "Parolei jābūt vismaz 6 simboliem."
	}
	return "Nederīga vērtība."
}
