package models

// TokenPayload is the verified content of an admin auth token.
type TokenPayload struct {
	Login string
}
