package ports

// CredentialVerifier is the injected password-hashing capability. The
// algorithm is an implementation detail; resource operations only ever see
// opaque hashes.
type CredentialVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
