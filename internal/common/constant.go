package common

// AuthHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthHeaderName = "Authorization"

// Local cache keys. The queue snapshot and the guest-mode dream collection
// use distinct keys so they never race on the same record.
const (
	CacheKeyDreams = "dreamjournal:dreams"
	CacheKeyQueue  = "dreamjournal:queue"
)
