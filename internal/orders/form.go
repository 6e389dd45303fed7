package orders

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/lanort/pedidos/pkg/errors"
)

const (
	msgFormInvalid   = "Por favor, preencha todos os campos obrigatórios corretamente"
	msgEmptyCart     = "O carrinho está vazio!"
	msgUserRequired  = "Selecione um usuário"
	msgTermRequired  = "Selecione um prazo de pagamento"
	msgEmailRequired = "Por favor, informe um email"
	msgEmailInvalid  = "Por favor, informe um email válido"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("order_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// Form carries the checkout fields: the selected user code, the selected payment
// term type, the contact email and free-text notes.
type Form struct {
	User        string `json:"usuario" validate:"required"`
	PaymentTerm string `json:"prazo" validate:"required"`
	Email       string `json:"email" validate:"required,order_email"`
	Notes       string `json:"observacoes"`
}

// Normalize trims every field.
func (f Form) Normalize() Form {
	return Form{
		User:        strings.TrimSpace(f.User),
		PaymentTerm: strings.TrimSpace(f.PaymentTerm),
		Email:       strings.TrimSpace(f.Email),
		Notes:       strings.TrimSpace(f.Notes),
	}
}

// Validate checks the normalized form. Field errors are keyed usuario, prazo and email.
func (f Form) Validate() error {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgFormInvalid)
	}
	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msgFormInvalid).WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "usuario":
		return msgUserRequired
	case "prazo":
		return msgTermRequired
	case "email":
		if fe.Tag() == "required" {
			return msgEmailRequired
		}
		return msgEmailInvalid
	}
	return "campo inválido"
}
