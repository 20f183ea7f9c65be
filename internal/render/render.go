// Package render builds the catalog HTML page: product rows and a single
// add/edit form are generated as fragments and placed into two named slots
// of a page template.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
)

// Slot names present in the page template as {{name}}.
const (
	SlotRows = "tabla_productos"
	SlotForm = "formulario"
)

// EditRowClass marks the row of the product being edited.
const EditRowClass = "edit-row"

// Slots maps slot names to the markup that replaces them.
type Slots map[string]string

// FillSlots replaces every {{name}} token of page with its slot markup.
// Any other content, including unknown tokens, is left untouched.
func FillSlots(page string, slots Slots) string {
	pairs := make([]string, 0, len(slots)*2)
	for name, markup := range slots {
		pairs = append(pairs, "{{"+name+"}}", markup)
	}
	return strings.NewReplacer(pairs...).Replace(page)
}

// TemplateSource supplies the raw page template.
type TemplateSource interface {
	Load() (string, error)
}

// FileSource reads the page template from disk on every Load.
type FileSource struct {
	Path string
}

func (f FileSource) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", perrors.ErrTemplateUnavailable, err)
	}
	return string(data), nil
}

// StaticSource serves a fixed template string.
type StaticSource string

func (s StaticSource) Load() (string, error) {
	return string(s), nil
}

// Renderer produces the full catalog document.
type Renderer struct {
	source    TemplateSource
	fragments *template.Template
}

// NewRenderer creates a Renderer reading the page from source.
func NewRenderer(source TemplateSource) *Renderer {
	return &Renderer{
		source:    source,
		fragments: template.Must(template.New("fragments").Parse(fragments)),
	}
}

type rowsData struct {
	Products []service.ProductDto
	Editing  bool
	EditID   int64
}

// Render returns the page for products. editID selects edit mode when present in products;
// otherwise the add form is rendered.
func (r *Renderer) Render(products []service.ProductDto, editID *int64) (string, error) {
	page, err := r.source.Load()
	if err != nil {
		return "", err
	}

	rows, form, err := r.Fragments(products, editID)
	if err != nil {
		return "", err
	}
	return FillSlots(page, Slots{SlotRows: rows, SlotForm: form}), nil
}

// Fragments renders the row markup and the form markup.
func (r *Renderer) Fragments(products []service.ProductDto, editID *int64) (string, string, error) {
	data := rowsData{Products: products}
	if editID != nil {
		data.Editing = true
		data.EditID = *editID
	}

	var rows bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&rows, "rows", data); err != nil {
		return "", "", fmt.Errorf("failed to render rows: %w", err)
	}

	var form bytes.Buffer
	var err error
	if editing := findProduct(products, editID); editing != nil {
		err = r.fragments.ExecuteTemplate(&form, "edit-form", editing)
	} else {
		err = r.fragments.ExecuteTemplate(&form, "add-form", nil)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to render form: %w", err)
	}
	return rows.String(), form.String(), nil
}

func findProduct(products []service.ProductDto, id *int64) *service.ProductDto {
	if id == nil {
		return nil
	}
	for i := range products {
		if products[i].ID == *id {
			return &products[i]
		}
	}
	return nil
}
