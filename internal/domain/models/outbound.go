package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// CityEntryRequest is the body accepted by the city contribution endpoints.
// Numeric fields are free text so that unparseable input reaches the recorder unchanged.
type CityEntryRequest struct {
	Date   string      `json:"date" form:"date"`
	City   string      `json:"city" form:"city"`
	Weight NumericText `json:"weight" form:"weight"`
}

// IndustryEntryRequest is the body accepted by the industry recovery endpoints.
type IndustryEntryRequest struct {
	Date   string      `json:"date" form:"date"`
	Weight NumericText `json:"weight" form:"weight"`
	Res    NumericText `json:"res" form:"res"`
	Cap    NumericText `json:"cap" form:"cap"`
	Iron   NumericText `json:"iron" form:"iron"`
	Mag    NumericText `json:"mag" form:"mag"`
	Cop    NumericText `json:"cop" form:"cop"`
	Sil    NumericText `json:"sil" form:"sil"`
}
