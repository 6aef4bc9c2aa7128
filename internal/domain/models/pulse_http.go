package models

// Requests for pulse HTTP endpoints. Defined in domain for consistency and reuse.

type PulseRequest struct {
	Force bool `query:"force" json:"force"`
	Limit int  `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}

type NewsRequest struct {
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=10"`
}

type InsightsRequest struct {
	Force bool `query:"force" json:"force"`
}
