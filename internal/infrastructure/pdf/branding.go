package pdf

import (
	_ "embed"
)

//go:embed assets/logo.png
var defaultLogo []byte

// Branding datos fijos de la tienda que encabezan el reporte.
type Branding struct {
	CompanyName string
	AddressLine string
	ContactLine string
	WebLine     string
	Logo        []byte // PNG; vacío = sin logo
}

// DefaultBranding devuelve la marca de la tienda con el logo embebido.
func DefaultBranding() Branding {
	return Branding{
		CompanyName: "AGRIPULSE FARM STORE",
		AddressLine: "123 Farm Street, Colombo, Sri Lanka",
		ContactLine: "Phone: +94 123 456 789 | Email: info@agripulse.com",
		WebLine:     "www.agripulse.com",
		Logo:        defaultLogo,
	}
}
