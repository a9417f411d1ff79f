package domain

type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(digest, password string) bool
}
