package client

// Model is one entry of GET /models.
type Model struct {
	ModelID        string           `json:"model_id"`
	Name           string           `json:"name,omitempty"`
	OrganisationID string           `json:"organisation_id,omitempty"`
	Aliases        []string         `json:"aliases,omitempty"`
	Endpoints      []string         `json:"endpoints,omitempty"`
	InputTypes     []string         `json:"input_types,omitempty"`
	OutputTypes    []string         `json:"output_types,omitempty"`
	Status         string           `json:"status,omitempty"`
	ReleaseDate    string           `json:"release_date,omitempty"`
	Providers      []map[string]any `json:"providers,omitempty"`
}

// ModelListResponse is the body of GET /models. Filters and paging go in
// WithQuery.
type ModelListResponse struct {
	RawResponse

	Models []Model `json:"models"`
	Total  int     `json:"total,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}
