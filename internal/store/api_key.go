package store

// APIKey authenticates a producer pushing build history. Producer names the
// CI server or pipeline the key was issued to.
type APIKey struct {
	ID         int64      `json:"id"`
	Producer   string     `json:"producer"`
	Value      string     `json:"value"`
	CreatedOn  Timestamp  `json:"created_on"`
	LastUsedOn *Timestamp `json:"last_used_on"`
}
