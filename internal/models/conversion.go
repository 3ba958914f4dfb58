package models

// ConversionQuery is the query string of GET /api/conversion
type ConversionQuery struct {
	SourceCurrency string `form:"sourceCurrency" binding:"required,nospaces,len=3" example:"EUR"`
	TargetCurrency string `form:"targetCurrency" binding:"required,nospaces,len=3" example:"USD"`
	Amount         string `form:"amount" binding:"required,positive_decimal" example:"100.00"`
}

// ConversionResponse is the body of a successful conversion
type ConversionResponse struct {
	Date            string `json:"date" example:"2024-03-20"`
	ConvertedAmount string `json:"convertedAmount" example:"108.20"`
}
