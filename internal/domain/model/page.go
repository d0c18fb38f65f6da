package model

// Page is one slice of a sorted result set. Number is zero based.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	Last             bool  `json:"last"`
}

// NewPage derives the page counters from the total row count. Content is never encoded as null.
func NewPage[T any](content []T, number int, size int, totalElements int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	var totalPages int
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}

	return &Page[T]{
		Content:          content,
		Number:           number,
		Size:             size,
		TotalElements:    totalElements,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		Last:             number+1 >= totalPages,
	}
}
