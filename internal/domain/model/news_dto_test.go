package model

import (
	"encoding/json"
	"testing"
	"time"

	"countries-informer/internal/domain/model/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPayload = `{"status":"ok","totalResults":2,"articles":[
  {"source":{"id":"bbc-news","name":"BBC News"},"author":null,"title":"First","description":"d","url":"https://bbc.co.uk/1","publishedAt":"2024-03-01T10:00:00Z"},
  {"source":{"id":null,"name":"Reuters"},"author":"Jane","title":"Second","publishedAt":"2024-03-01T12:30:00+02:00"}
]}`

func decodeNews(t *testing.T, payload string) *external.NewsAPIResponse {
	t.Helper()
	var raw external.NewsAPIResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return &raw
}

func TestNormalizeNews(t *testing.T) {
	feed, err := NormalizeNews(decodeNews(t, newsPayload))
	require.NoError(t, err)
	require.Equal(t, 2, feed.Len())

	items := feed.Items()
	assert.Equal(t, "BBC News", items[0].Source)
	assert.False(t, items[0].Author.Valid)
	assert.Equal(t, Some("https://bbc.co.uk/1"), items[0].URL)
	assert.Equal(t, Some("Jane"), items[1].Author)
	assert.False(t, items[1].Description.Valid)
	assert.True(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC).Equal(items[1].PublishedAt))
	assert.Equal(t, time.UTC, items[1].PublishedAt.Location())

	data, err := json.Marshal(feed)
	require.NoError(t, err)
	var decoded NewsFeedDTO
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, feed.Equal(decoded))
	assert.Equal(t, feed.Hash(), decoded.Hash())
}

func TestNormalizeNews_Invalid(t *testing.T) {
	_, err := NormalizeNews(decodeNews(t, `{"status":"ok","articles":[{"source":{"name":"x"},"title":"t","publishedAt":"yesterday"}]}`))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeNews(decodeNews(t, `{"status":"error","articles":[]}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewsQuery(t *testing.T) {
	query, err := NewsQuery{Country: " US ", Category: "Business"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "us", query.Country)
	assert.Equal(t, DefaultNewsPageSize, query.PageSize)
	assert.Equal(t, "category=business&country=us&pageSize=20", query.CacheKey())

	same, err := NewsQuery{Category: "business", Country: "us", PageSize: 20}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, query.CacheKey(), same.CacheKey())

	_, err = NewsQuery{}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = NewsQuery{Country: "usa"}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = NewsQuery{Query: "go", PageSize: 500}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
