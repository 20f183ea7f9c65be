// Package web serves the HTML catalog page, its form actions and static assets.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	pkgweb "github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Form actions accepted by POST /.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// PageRenderer renders the catalog document.
type PageRenderer interface {
	Render(products []service.ProductDto, editID *int64) (string, error)
}

type Handler struct {
	service   service.ProductService
	renderer  PageRenderer
	staticDir string
	logger    *slog.Logger
}

// NewHandler creates the HTML handler. Static files are served from staticDir when it is not empty.
func NewHandler(service service.ProductService, renderer PageRenderer, staticDir string, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		renderer:  renderer,
		staticDir: staticDir,
		logger:    logger.With("component", "web"),
	}
}

// RegisterRoutes registers the page, the form endpoint and the static file server.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/", h.Submit)

	if h.staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}
}

// Index renders the product table and the add or edit form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var editID *int64
	if id, ok := pkgweb.QueryID(r, "edit"); ok {
		editID = &id
	}

	products, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	doc, err := h.renderer.Render(products, editID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error rendering page", "error", err)
		if errors.Is(err, perrors.ErrTemplateUnavailable) {
			http.Error(w, "Template not available", http.StatusInternalServerError)
			return
		}
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	pkgweb.RespondHTML(w, http.StatusOK, doc)
}

// Submit dispatches the form action and redirects back to the page.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(r.Context(), "Error parsing form", "error", err)
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	action := r.PostFormValue("action")
	h.logger.DebugContext(r.Context(), "Received form submission", "action", action)

	var err error
	switch action {
	case ActionAdd:
		err = h.addProduct(r)
	case ActionEdit:
		err = h.editProduct(r)
	case ActionDelete:
		err = h.deleteProduct(r)
	default:
		h.logger.WarnContext(r.Context(), "Ignoring unknown form action", "action", action)
	}

	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		h.respondFormError(w, r, action, err)
		return
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "Product not found for form action", "action", action, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) addProduct(r *http.Request) error {
	input, err := formInput(r)
	if err != nil {
		return err
	}
	id, err := h.service.Create(r.Context(), input)
	if err != nil {
		return err
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", id, "Name", input.Nombre)
	return nil
}

func (h *Handler) editProduct(r *http.Request) error {
	id, err := formID(r)
	if err != nil {
		return err
	}
	input, err := formInput(r)
	if err != nil {
		return err
	}
	if err := h.service.Update(r.Context(), id, input); err != nil {
		return err
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", id, "Name", input.Nombre)
	return nil
}

func (h *Handler) deleteProduct(r *http.Request) error {
	id, err := formID(r)
	if err != nil {
		return err
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		return err
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	return nil
}

func (h *Handler) respondFormError(w http.ResponseWriter, r *http.Request, action string, err error) {
	var fieldErr *formFieldError
	var validationErr *perrors.ValidationError
	switch {
	case errors.As(err, &fieldErr):
		h.logger.WarnContext(r.Context(), "Invalid form field", "action", action, "field", fieldErr.field, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &validationErr):
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "action", action, "errors", validationErr.Fields)
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "Error processing form action", "action", action, "error", err)
		http.Error(w, fmt.Sprintf("Failed to %s product", action), http.StatusInternalServerError)
	}
}

// formFieldError reports a form value that is not a valid number.
type formFieldError struct {
	field string
	value string
}

func (e *formFieldError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.field, e.value)
}

func formID(r *http.Request) (int64, error) {
	value := strings.TrimSpace(r.PostFormValue("id"))
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, &formFieldError{field: "id", value: value}
	}
	return id, nil
}

// formInput builds a ProductInput from the posted fields. Empty numeric fields stay nil
// so that validation reports them as missing.
func formInput(r *http.Request) (service.ProductInput, error) {
	input := service.ProductInput{Nombre: r.PostFormValue("nombre")}

	if value := strings.TrimSpace(r.PostFormValue("precio")); value != "" {
		price, err := decimal.NewFromString(value)
		if err != nil {
			return input, &formFieldError{field: "precio", value: value}
		}
		input.Precio = &price
	}

	if value := strings.TrimSpace(r.PostFormValue("stock")); value != "" {
		stock, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return input, &formFieldError{field: "stock", value: value}
		}
		s := int32(stock)
		input.Stock = &s
	}
	return input, nil
}
