package services

// Notifier delivers a best-effort message to a list of recipients. It is
// only ever invoked after a transaction has committed; implementations must
// not be called while database locks are held.
type Notifier interface {
	Notify(subject, body string, recipients []string) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}
