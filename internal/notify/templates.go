package notify

import (
	"fmt"

	"github.com/mfourati/ordersync/internal/models"
)

// Message templates keyed by the new status. Both locales are rendered
// into one payload: the customer's preferred language is not tracked,
// so every message carries the French text followed by the English one.

var messagesFR = map[models.OrderStatus]string{
	models.OrderStatusPending:        "Votre commande %s a bien été reçue. Suivez-la avec le code %s.",
	models.OrderStatusConfirmed:      "Votre commande %s est confirmée.",
	models.OrderStatusProcessing:     "Votre commande %s est en cours de préparation.",
	models.OrderStatusShipped:        "Votre commande %s a été expédiée. Code de suivi : %s.",
	models.OrderStatusOutForDelivery: "Votre commande %s est en cours de livraison.",
	models.OrderStatusDelivered:      "Votre commande %s a été livrée. Merci !",
	models.OrderStatusCancelled:      "Votre commande %s a été annulée.",
	models.OrderStatusRefunded:       "Votre commande %s a été remboursée.",
}

var messagesEN = map[models.OrderStatus]string{
	models.OrderStatusPending:        "Your order %s has been received. Track it with code %s.",
	models.OrderStatusConfirmed:      "Your order %s is confirmed.",
	models.OrderStatusProcessing:     "Your order %s is being prepared.",
	models.OrderStatusShipped:        "Your order %s has been shipped. Tracking code: %s.",
	models.OrderStatusOutForDelivery: "Your order %s is out for delivery.",
	models.OrderStatusDelivered:      "Your order %s has been delivered. Thank you!",
	models.OrderStatusCancelled:      "Your order %s has been cancelled.",
	models.OrderStatusRefunded:       "Your order %s has been refunded.",
}

// RenderMessage builds the bilingual notification body for a status.
func RenderMessage(order *models.Order, status models.OrderStatus) string {
	fr := render(messagesFR[status], order)
	en := render(messagesEN[status], order)
	return fr + "\n\n" + en
}

func render(tmpl string, order *models.Order) string {
	switch countVerbs(tmpl) {
	case 2:
		return fmt.Sprintf(tmpl, order.Number, order.TrackingCode)
	case 1:
		return fmt.Sprintf(tmpl, order.Number)
	default:
		return tmpl
	}
}

func countVerbs(tmpl string) int {
	n := 0
	for i := 0; i+1 < len(tmpl); i++ {
		if tmpl[i] == '%' && tmpl[i+1] == 's' {
			n++
		}
	}
	return n
}
