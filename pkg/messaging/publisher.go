// Package messaging defines the event publishing contract used by the catalog.
package messaging

import (
	"context"
)

// Subjects of the product change events.
const (
	ProductCreatedSubject = "catalog.product.created"
	ProductUpdatedSubject = "catalog.product.updated"
	ProductDeletedSubject = "catalog.product.deleted"
)

// CatalogStreamSubjects is the subject filter of the JetStream stream holding catalog events.
const CatalogStreamSubjects = "catalog.>"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when NATS is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
