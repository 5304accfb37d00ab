package auth

// Principal is the verified identity resolved from a bearer token or a
// credential exchange. It contains facts asserted by the identity provider,
// no decisions, and is never persisted by the gateway.
type Principal struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// Session is the provider-issued session returned to the caller after a
// successful credential exchange. The access token is opaque to the gateway:
// it is handed back verbatim and later presented as a bearer credential.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
