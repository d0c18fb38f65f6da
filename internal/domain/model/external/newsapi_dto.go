package external

// NewsAPIResponse is the NewsAPI /v2/top-headlines payload.
type NewsAPIResponse struct {
	Status       *string          `json:"status" validate:"required,eq=ok"`
	TotalResults *float64         `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles" validate:"required,dive"`
}

type NewsAPIArticle struct {
	Source      *NewsAPISource `json:"source" validate:"required"`
	Author      *string        `json:"author"`
	Title       *string        `json:"title" validate:"required"`
	Description *string        `json:"description"`
	URL         *string        `json:"url" validate:"omitempty,url"`
	URLToImage  *string        `json:"urlToImage"`
	PublishedAt *string        `json:"publishedAt" validate:"required"`
	Content     *string        `json:"content"`
}

type NewsAPISource struct {
	ID   *string `json:"id"`
	Name *string `json:"name" validate:"required"`
}

// NewsAPIError is the body NewsAPI sends with non-2xx answers.
type NewsAPIError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
