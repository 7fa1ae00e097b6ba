package domain

// Identity is the signed-in organizer, if any. It only gates display and is copied onto
// drafts for attribution; validation and availability never consult it.
type Identity struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// TokenVerifier verifies a bearer token issued by the identity provider.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}
