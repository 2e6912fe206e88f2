package domain

// PageCount is the click counter for a single tracked link.
type PageCount struct {
	Href  string `json:"href" db:"href"`
	Count int64  `json:"count" db:"count"`
}
