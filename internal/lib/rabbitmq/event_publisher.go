package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/kittycareapp/kittycare-server/internal/models"
)

// EventPublisher публикует события подписки в exchange уведомлений.
type EventPublisher struct {
	ch *amqp.Channel
}

// NewEventPublisher создает новый экземпляр EventPublisher.
func NewEventPublisher(ch *amqp.Channel) *EventPublisher {
	return &EventPublisher{ch: ch}
}

// PublishSubscriptionEvent публикует событие с ключом маршрутизации
// очереди подписочных уведомлений.
func (p *EventPublisher) PublishSubscriptionEvent(event models.SubscriptionEvent) error {
	return PublishMessage(p.ch, NotificationsExchange, "subscription", event)
}
