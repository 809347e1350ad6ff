package cmd

import (
	"testing"

	"github.com/sunstyle/sunstyle/pkg/catalog"
)

func TestFoldText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Camisa", "camisa"},
		{"Algodón", "algodon"},
		{"PANTALÓN", "pantalon"},
		{"ñandú", "nandu"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := foldText(tt.in); got != tt.want {
			t.Errorf("foldText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterItems(t *testing.T) {
	items := []catalog.Item{
		{Nombre: "Camisa Azul", Descripcion: "de algodón", Categoria: "camisas"},
		{Nombre: "Pantalón", Descripcion: "vaquero clásico", Categoria: "pantalones"},
	}

	tests := []struct {
		search string
		want   int
	}{
		{"camisa", 1},
		{"CAMISA", 1},
		{"algodon", 1},   // accent-insensitive against "algodón"
		{"pantalón", 1},
		{"clasico", 1},
		{"a", 2},
		{"zapato", 0},
	}
	for _, tt := range tests {
		if got := filterItems(items, tt.search); len(got) != tt.want {
			t.Errorf("filterItems(%q) matched %d items, want %d", tt.search, len(got), tt.want)
		}
	}
}
