package domain

// ClientCredentials identify the Box application a visitor is authorizing.
// They are supplied on the Authorize form and live only for one round trip.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"` // Never serialize
}
