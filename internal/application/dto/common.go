package dto

import "github.com/shopspring/decimal"

func init() {
	// price y weight.value viajan como números JSON.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
