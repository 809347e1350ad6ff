package catalog

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sunstyle/sunstyle/pkg/errors"
)

// Validation limits for candidate items.
const (
	// MinNombreLen is the minimum trimmed length of an item name.
	MinNombreLen = 3

	// MinDescripcionLen is the minimum trimmed length of a description.
	MinDescripcionLen = 10

	// MaxImagenBytes bounds the encoded image data URI (10 MiB).
	MaxImagenBytes = 10 << 20

	// imagenPrefix is the accepted data URI prefix. A prefix check is
	// sufficient; pixel data is never decoded here.
	imagenPrefix = "data:image/"
)

// Rejection reasons, surfaced verbatim to the submitting client.
const (
	reasonNotObject   = "La prenda debe ser un objeto con sus datos"
	reasonNombre      = "El nombre debe tener al menos 3 caracteres"
	reasonDescripcion = "La descripción debe tener al menos 10 caracteres"
	reasonPrecio      = "Ingresa un precio válido mayor a 0"
	reasonTallas      = "Selecciona al menos una talla"
	reasonImagen      = "Debes seleccionar una imagen"
	reasonImagenSize  = "La imagen no debe pesar más de 10MB"
)

// Validate checks a decoded candidate payload and returns the accepted Item
// or a *errors.ValidationError naming the first rule that failed.
//
// Validate is pure: it never mutates state and the same candidate always
// yields the same verdict. ID, Vendedor and Fecha are left zero; the
// protocol and the Store assign them on acceptance.
func Validate(candidate any) (Item, error) {
	fields, ok := candidate.(map[string]any)
	if !ok || fields == nil {
		return Item{}, errors.NewValidationError("", reasonNotObject)
	}

	nombre := strings.TrimSpace(stringField(fields, "nombre"))
	if utf8.RuneCountInString(nombre) < MinNombreLen {
		return Item{}, errors.NewValidationError("nombre", reasonNombre)
	}

	descripcion := strings.TrimSpace(stringField(fields, "descripcion"))
	if utf8.RuneCountInString(descripcion) < MinDescripcionLen {
		return Item{}, errors.NewValidationError("descripcion", reasonDescripcion)
	}

	precio, ok := fields["precio"].(float64)
	if !ok || math.IsNaN(precio) || math.IsInf(precio, 0) || precio <= 0 {
		return Item{}, errors.NewValidationError("precio", reasonPrecio)
	}

	tallas := sizeTags(fields["tallas"])
	if len(tallas) == 0 {
		return Item{}, errors.NewValidationError("tallas", reasonTallas)
	}

	imagen := stringField(fields, "imagen")
	if imagen == "" || !strings.HasPrefix(imagen, imagenPrefix) {
		return Item{}, errors.NewValidationError("imagen", reasonImagen)
	}
	if len(imagen) > MaxImagenBytes {
		return Item{}, errors.NewValidationError("imagen", reasonImagenSize)
	}

	return Item{
		Nombre:      nombre,
		Descripcion: descripcion,
		Precio:      precio,
		Tallas:      tallas,
		Categoria:   stringField(fields, "categoria"),
		Color:       stringField(fields, "color"),
		Imagen:      imagen,
	}, nil
}

// stringField returns the named field if it is a string, or "".
func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

// sizeTags normalizes a tallas payload into a deduplicated slice of
// non-empty tags, preserving first-seen order. JSON decoding yields []any;
// []string is accepted for callers constructing candidates directly.
func sizeTags(v any) []string {
	var raw []string
	switch tags := v.(type) {
	case []string:
		raw = tags
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
