// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It is shared by the JSON API and the HTML form endpoint.
type ProductService interface {
	// FindAll returns all products ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates the input and adds a new product.
	// Returns the assigned ID, or a ValidationError when the input is invalid.
	Create(ctx context.Context, input ProductInput) (int64, error)

	// Update validates the input and replaces name, price and stock of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, input ProductInput) error

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	validate   *validator.Validate
	now        func() time.Time
	changes    metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository and event publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	meter := otel.Meter("catalog")
	changes, err := meter.Int64Counter("product_changes", metric.WithDescription("Total number of product changes by operation"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_changes counter: %v", err))
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
		validate:   newValidator(),
		now:        time.Now,
		changes:    changes,
	}
}

// ProductInput is the body accepted by create and update.
// Pointers tell a missing field apart from a zero value.
type ProductInput struct {
	Nombre string           `json:"nombre" validate:"required,max=255"`
	Precio *decimal.Decimal `json:"precio" validate:"required,decimal_range,min=0,max=99999999.99"`
	Stock  *int32           `json:"stock"  validate:"required,min=0"`
}

// ProductDto represents the data transfer object for a product.
// Precio always carries exactly two decimals.
type ProductDto struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Precio string `json:"precio"`
	Stock  int32  `json:"stock"`
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i := range products {
		productDTOs[i] = toDto(&products[i])
	}
	return productDTOs, nil
}

// Create validates the input, inserts the product and publishes a created event.
func (s *Service) Create(ctx context.Context, input ProductInput) (int64, error) {
	if err := s.Validate(&input); err != nil {
		return 0, err
	}
	price := input.Precio.Round(2)
	id, err := s.repository.Insert(ctx, input.Nombre, price, *input.Stock)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "create")))
	s.publish(ctx, events.ProductCreatedEvent{ProductEvent: s.productEvent(ctx, id, &input)})
	return id, nil
}

// Update validates the input, replaces the product and publishes an updated event.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id int64, input ProductInput) error {
	if err := s.Validate(&input); err != nil {
		return err
	}
	price := input.Precio.Round(2)
	if err := s.repository.Update(ctx, id, input.Nombre, price, *input.Stock); err != nil {
		return fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "update")))
	s.publish(ctx, events.ProductUpdatedEvent{ProductEvent: s.productEvent(ctx, id, &input)})
	return nil
}

// DeleteByID deletes a product by its ID and publishes a deleted event.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	s.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "delete")))
	s.publish(ctx, events.ProductDeletedEvent{ProductEvent: s.productEvent(ctx, id, nil)})
	return nil
}

// Validate normalizes the input in place and checks it.
// Failures are returned as *errors.ValidationError keyed by JSON field name.
func (s *Service) Validate(input *ProductInput) error {
	input.Nombre = strings.TrimSpace(input.Nombre)
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			// fieldErr.Tag() returns "required", "max", etc.
			fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		return perrors.NewValidationError(fields)
	}
	return fmt.Errorf("failed to validate product: %w", err)
}

func (s *Service) productEvent(ctx context.Context, id int64, input *ProductInput) events.ProductEvent {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.ProductEvent{
		Carrier:    carrier,
		ProductID:  id,
		OccurredAt: s.now().UTC(),
	}
	if input != nil {
		stock := *input.Stock
		event.Nombre = input.Nombre
		event.Precio = input.Precio.StringFixed(2)
		event.Stock = &stock
	}
	return event
}

// publish never fails the calling operation.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

// toDto converts a db.Product to a ProductDto.
func toDto(product *db.Product) ProductDto {
	return ProductDto{
		ID:     product.ID,
		Nombre: product.Name,
		Precio: product.Price.StringFixed(2),
		Stock:  product.Stock,
	}
}

// Bounds a price must satisfy before it is converted for comparison.
// Anything outside them cannot fit DECIMAL(10,2) and converting it costs time proportional to the exponent.
const (
	maxPriceExponent = 8
	minPriceExponent = -20
	maxPriceDigits   = 30
)

// priceInRange checks the scale and precision of d without materializing its value.
func priceInRange(d decimal.Decimal) bool {
	return d.Exponent() <= maxPriceExponent &&
		d.Exponent() >= minPriceExponent &&
		d.NumDigits() <= maxPriceDigits
}

// newValidator reports JSON field names and compares decimals as float64.
// Decimals failing priceInRange become NaN and fail the decimal_range tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			if !priceInRange(d) {
				return math.NaN()
			}
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("decimal_range", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Float64 && !math.IsNaN(fl.Field().Float())
	})
	return v
}
