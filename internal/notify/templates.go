package notify

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/balazs-web/smoky-fish-sub000/internal/models"
)

// templateData is everything the two mail bodies can reference
type templateData struct {
	SiteName string
	OrderID  string
	Sub      models.Submission
}

var templateFuncs = template.FuncMap{
	"money": func(v int) string {
		return fmt.Sprintf("%d Ft", v)
	},
	"lineName": func(item models.BasketItem) string {
		if item.Variant != nil {
			return fmt.Sprintf("%s (%s)", item.ProductName, item.Variant.Name)
		}
		return item.ProductName
	},
	"lineTotal": func(item models.BasketItem) int {
		return item.LineTotal()
	},
}

var customerTemplate = template.Must(template.New("customer").Funcs(templateFuncs).Parse(
	`Dear {{.Sub.Shipping.Name}},

Thank you for your order at {{.SiteName}}!

Order number: {{.OrderID}}

Items:
{{range .Sub.Items}}  - {{lineName .}} x{{.Quantity}} — {{money (lineTotal .)}}
{{end}}
Subtotal: {{money .Sub.Subtotal}}
Shipping: {{money .Sub.ShippingCost}}
Total:    {{money .Sub.TotalPrice}}
{{if .Sub.PaymentMethod}}
Payment method: {{.Sub.PaymentMethod}}
{{end}}
Shipping address:
  {{.Sub.Shipping.Name}}
  {{.Sub.Shipping.Postcode}} {{.Sub.Shipping.City}}, {{.Sub.Shipping.Street}} {{.Sub.Shipping.HouseNumber}}
{{- if .Sub.Shipping.Building}} (building {{.Sub.Shipping.Building}}){{end}}
{{- if .Sub.Shipping.Floor}}, floor {{.Sub.Shipping.Floor}}{{end}}
{{- if .Sub.Shipping.Door}}, door {{.Sub.Shipping.Door}}{{end}}
{{if not .Sub.Billing.SameAsShipping}}
Billing address:
  {{.Sub.Billing.Name}}{{if .Sub.Billing.CompanyName}} / {{.Sub.Billing.CompanyName}}{{end}}
  {{.Sub.Billing.Postcode}} {{.Sub.Billing.City}}, {{.Sub.Billing.Street}} {{.Sub.Billing.HouseNumber}}
{{- if .Sub.Billing.TaxID}}
  Tax id: {{.Sub.Billing.TaxID}}{{end}}
{{end}}
We will contact you about the delivery shortly.

{{.SiteName}}
`))

var operatorTemplate = template.Must(template.New("operator").Funcs(templateFuncs).Parse(
	`New order received: {{.OrderID}}

Items:
{{range .Sub.Items}}  - {{lineName .}} x{{.Quantity}} — {{money (lineTotal .)}}
{{end}}
Subtotal: {{money .Sub.Subtotal}}
Shipping: {{money .Sub.ShippingCost}}
Total:    {{money .Sub.TotalPrice}}
{{if .Sub.PaymentMethod}}
Payment method: {{.Sub.PaymentMethod}}
{{end}}
Customer:
  {{.Sub.Shipping.Name}}
  Phone: {{.Sub.Shipping.Phone}}
  Email: {{.Sub.Shipping.Email}}

Delivery address:
  {{.Sub.Shipping.Postcode}} {{.Sub.Shipping.City}}, {{.Sub.Shipping.Street}} {{.Sub.Shipping.HouseNumber}}
{{- if .Sub.Shipping.Building}} (building {{.Sub.Shipping.Building}}){{end}}
{{- if .Sub.Shipping.Floor}}, floor {{.Sub.Shipping.Floor}}{{end}}
{{- if .Sub.Shipping.Door}}, door {{.Sub.Shipping.Door}}{{end}}
{{- if .Sub.Shipping.Note}}
  Note: {{.Sub.Shipping.Note}}{{end}}
{{if not .Sub.Billing.SameAsShipping}}
Billing address:
  {{.Sub.Billing.Name}}{{if .Sub.Billing.CompanyName}} / {{.Sub.Billing.CompanyName}}{{end}}
  {{.Sub.Billing.Postcode}} {{.Sub.Billing.City}}, {{.Sub.Billing.Street}} {{.Sub.Billing.HouseNumber}}
{{- if .Sub.Billing.TaxID}}
  Tax id: {{.Sub.Billing.TaxID}}{{end}}
{{end}}`))

func renderCustomerMessage(siteName, orderID string, sub models.Submission) (Message, error) {
	body, err := render(customerTemplate, templateData{SiteName: siteName, OrderID: orderID, Sub: sub})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      sub.Shipping.Email,
		Subject: fmt.Sprintf("%s — order confirmation %s", siteName, orderID),
		Body:    body,
	}, nil
}

func renderOperatorMessage(siteName, orderID, operatorEmail string, sub models.Submission) (Message, error) {
	body, err := render(operatorTemplate, templateData{SiteName: siteName, OrderID: orderID, Sub: sub})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      operatorEmail,
		Subject: fmt.Sprintf("%s — new order %s", siteName, orderID),
		Body:    body,
	}, nil
}

func render(t *template.Template, data templateData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("error rendering %s template: %w", t.Name(), err)
	}
	return sb.String(), nil
}
