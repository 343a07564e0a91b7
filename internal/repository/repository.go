package repository

// TokenRepository is the credential side of the client: bearer tokens
// per user id, with a default credential for the client's own user.
type TokenRepository interface {
	Start() error
	Stop()
	Token(userID uint) string
	DefaultUserID() uint
}
