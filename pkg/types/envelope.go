package types

// Envelope is the marketplace API wrapper around every non-auth payload.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// PagedEnvelope wraps list endpoints that page on the server.
type PagedEnvelope[T any] struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination mirrors the server page info block.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// Page is a decoded page of results handed to coordinators.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
