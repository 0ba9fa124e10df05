package entity

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category clasifica el arroz del catálogo.
type Category string

const (
	CategoryWhiteRice   Category = "white rice"
	CategoryRedRice     Category = "red rice"
	CategoryImported    Category = "imported"
	CategoryTraditional Category = "traditional"
)

// Categories devuelve las categorías válidas en el orden del formulario.
func Categories() []Category {
	return []Category{CategoryWhiteRice, CategoryRedRice, CategoryImported, CategoryTraditional}
}

// Valid indica si c pertenece al enum.
func (c Category) Valid() bool {
	switch c {
	case CategoryWhiteRice, CategoryRedRice, CategoryImported, CategoryTraditional:
		return true
	}
	return false
}

// Label etiqueta para mostrar ("white rice" -> "White Rice").
func (c Category) Label() string {
	return cases.Title(language.English).String(string(c))
}
