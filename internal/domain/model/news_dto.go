package model

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"countries-informer/internal/domain/model/external"
)

const (
	DefaultNewsPageSize = 20
	MaxNewsPageSize     = 100
)

// NewsQuery holds the top-headlines search parameters. At least one of Country, Query or Category is needed.
type NewsQuery struct {
	Country  string `json:"country" query:"country" validate:"omitempty,len=2,alpha"`
	Query    string `json:"q" query:"q" validate:"omitempty,max=500"`
	Category string `json:"category" query:"category" validate:"omitempty,oneof=business entertainment general health science sports technology"`
	PageSize int    `json:"page_size" query:"page_size" validate:"min=0,max=100"`
}

// Normalize lower-cases the country and category, trims the search text and applies the default page size.
func (q NewsQuery) Normalize() (NewsQuery, error) {
	q.Country = strings.ToLower(strings.TrimSpace(q.Country))
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.Query = strings.TrimSpace(q.Query)
	if q.PageSize == 0 {
		q.PageSize = DefaultNewsPageSize
	}

	if q.Country == "" && q.Query == "" && q.Category == "" {
		return q, fmt.Errorf("%w: one of country, q or category is required", ErrInvalidQuery)
	}
	if err := validate.Struct(q); err != nil {
		return q, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return q, nil
}

// Params returns the upstream query parameters, leaving out empty ones.
func (q NewsQuery) Params() map[string]string {
	params := map[string]string{"pageSize": strconv.Itoa(q.PageSize)}
	if q.Country != "" {
		params["country"] = q.Country
	}
	if q.Query != "" {
		params["q"] = q.Query
	}
	if q.Category != "" {
		params["category"] = q.Category
	}
	return params
}

// CacheKey is the canonical encoded query, keys sorted.
func (q NewsQuery) CacheKey() string {
	values := url.Values{}
	for k, v := range q.Params() {
		values.Set(k, v)
	}
	return values.Encode()
}

type NewsItemDTO struct {
	Source      string           `json:"source"`
	Author      Optional[string] `json:"author"`
	Title       string           `json:"title"`
	Description Optional[string] `json:"description"`
	URL         Optional[string] `json:"url"`
	PublishedAt time.Time        `json:"published_at"`
}

// NewsFeedDTO is an ordered list of news items. It encodes as a JSON array.
type NewsFeedDTO struct {
	items []NewsItemDTO
}

func NewNewsFeed(items []NewsItemDTO) NewsFeedDTO {
	return NewsFeedDTO{items: slices.Clone(items)}
}

// Items returns a copy of the feed in upstream order.
func (f NewsFeedDTO) Items() []NewsItemDTO {
	if f.items == nil {
		return []NewsItemDTO{}
	}
	return slices.Clone(f.items)
}

func (f NewsFeedDTO) Len() int {
	return len(f.items)
}

func (f NewsFeedDTO) Equal(other NewsFeedDTO) bool {
	if len(f.items) != len(other.items) {
		return false
	}
	for i := range f.items {
		a, b := f.items[i], other.items[i]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return false
		}
		a.PublishedAt, b.PublishedAt = time.Time{}, time.Time{}
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}

func (f NewsFeedDTO) Hash() uint64 {
	return hashOf(f)
}

func (f NewsFeedDTO) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Items())
}

func (f *NewsFeedDTO) UnmarshalJSON(data []byte) error {
	var items []NewsItemDTO
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	f.items = items
	return nil
}

// NormalizeNews validates a NewsAPI payload. Publication times are kept in UTC.
func NormalizeNews(raw *external.NewsAPIResponse) (*NewsFeedDTO, error) {
	const schema = "news"
	if raw == nil {
		return nil, &ValidationError{Schema: schema, Fields: []FieldError{{Field: schema, Rule: "required"}}}
	}
	if err := validateStruct(schema, raw); err != nil {
		return nil, err
	}

	fe := &fieldErrors{schema: schema}
	items := make([]NewsItemDTO, 0, len(raw.Articles))
	for i, a := range raw.Articles {
		publishedAt, err := time.Parse(time.RFC3339, *a.PublishedAt)
		if err != nil {
			fe.add(fmt.Sprintf("articles[%d].publishedAt", i), "datetime")
			continue
		}
		items = append(items, NewsItemDTO{
			Source:      *a.Source.Name,
			Author:      OptionalOf(a.Author),
			Title:       *a.Title,
			Description: OptionalOf(a.Description),
			URL:         OptionalOf(a.URL),
			PublishedAt: publishedAt.UTC(),
		})
	}

	if err := fe.err(); err != nil {
		return nil, err
	}
	return &NewsFeedDTO{items: items}, nil
}
