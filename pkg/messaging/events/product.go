// Package events contains the product change events published by the catalog.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// ProductEvent carries the state of a product after a change.
// Deleted events only set ProductID.
type ProductEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID  int64                  `json:"product_id"`
	Nombre     string                 `json:"nombre,omitempty"`
	Precio     string                 `json:"precio,omitempty"`
	Stock      *int32                 `json:"stock,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type ProductCreatedEvent struct{ ProductEvent }

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e.ProductEvent)
}

type ProductUpdatedEvent struct{ ProductEvent }

func (e ProductUpdatedEvent) Subject() string {
	return messaging.ProductUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e.ProductEvent)
}

type ProductDeletedEvent struct{ ProductEvent }

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e.ProductEvent)
}
