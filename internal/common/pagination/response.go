package pagination

// Response is the envelope returned by every list endpoint.
type Response[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewResponse builds the envelope for one page. Data is never nil so that an
// empty page serialises as [].
func NewResponse[T any](data []T, params Params, total int64) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Data:       data,
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: CalculateTotalPages(total, params.Limit),
	}
}
