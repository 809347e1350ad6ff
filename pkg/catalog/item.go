// Package catalog provides the core catalog system for the sunstyle
// clothing marketplace: the Item model, candidate validation, and the
// file-backed append-only Store.
//
// The catalog is ordered most-recent-first: new items are prepended, never
// edited or deleted. JSON field names are the wire contract shared with the
// web client and the persisted db.json document.
package catalog

import (
	"github.com/agentstation/utc"
)

// Item is an accepted, immutable catalog entry (a listed "prenda").
type Item struct {
	// ID uniquely identifies the item. Assigned by the Store on append.
	ID string `json:"id"`

	// Nombre is the item's display name, trimmed, at least 3 characters.
	Nombre string `json:"nombre"`

	// Descripcion is the item's description, trimmed, at least 10 characters.
	Descripcion string `json:"descripcion"`

	// Precio is the asking price. Always finite and greater than zero.
	Precio float64 `json:"precio"`

	// Tallas are the available size tags, non-empty, duplicates collapsed.
	Tallas []string `json:"tallas"`

	// Categoria and Color are free-form and may be empty.
	Categoria string `json:"categoria"`
	Color     string `json:"color"`

	// Imagen is a self-describing data URI ("data:image/..."), at most
	// 10 MiB encoded. Pixel data is never decoded server-side.
	Imagen string `json:"imagen"`

	// Vendedor is the display name of the submitting connection at
	// submission time.
	Vendedor string `json:"vendedor"`

	// Fecha is the acceptance timestamp. Assigned by the Store, not the
	// client.
	Fecha utc.Time `json:"fecha"`
}
