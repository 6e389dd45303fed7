package catalog

import (
	"fmt"

	"github.com/lanort/pedidos/pkg/sheetapi"
)

// User is a partner that can place an order.
type User struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label renders the reference text sent with orders.
func (u User) Label() string {
	return fmt.Sprintf("%s - %s", u.Code, u.Name)
}

func NewUser(rec sheetapi.Record) User {
	return User{
		Code: textField(rec, userCodeKeys),
		Name: textField(rec, userNameKeys),
	}
}

// PaymentTerm is a negotiation type offered at checkout.
type PaymentTerm struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (p PaymentTerm) Label() string {
	return fmt.Sprintf("%s - %s", p.Type, p.Description)
}

func NewPaymentTerm(rec sheetapi.Record) PaymentTerm {
	return PaymentTerm{
		Type:        textField(rec, termTypeKeys),
		Description: textField(rec, termDescriptionKeys),
	}
}
