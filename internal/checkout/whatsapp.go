package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vendemais/vendemais-backend/pkg/db/models"
)

// formatBRL renders integer cents as a pt-BR currency string.
func formatBRL(cents int) string {
	value := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
	return "R$ " + strings.ReplaceAll(value.StringFixed(2), ".", ",")
}

// onlyDigits strips formatting from a phone number for the wa.me path.
func onlyDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// whatsAppURL builds the wa.me link that opens the store's WhatsApp chat
// with the order summary prefilled.
func whatsAppURL(storePhone string, order *models.Order) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "Olá! Acabei de fazer o pedido *%s*:\n\n", order.Code)
	for _, item := range order.Items {
		name := item.ProductName
		if item.VariationName != nil {
			name += " (" + *item.VariationName + ")"
		}
		fmt.Fprintf(&msg, "• %dx %s - %s\n", item.Qty, name, formatBRL(item.LineSubtotalCents))
	}
	fmt.Fprintf(&msg, "\n*Total: %s*\n", formatBRL(order.TotalCents))
	fmt.Fprintf(&msg, "Nome: %s\n", order.CustomerName)

	return "https://wa.me/" + onlyDigits(storePhone) + "?text=" + url.QueryEscape(msg.String())
}
