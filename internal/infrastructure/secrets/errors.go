package secrets

import "errors"

// Sentinel errors for secret retrieval.
var (
	// ErrSecretNotFound indicates the secret does not exist in the region.
	ErrSecretNotFound = errors.New("secrets: secret not found")

	// ErrEmptySecret indicates the secret has neither a string nor a binary value.
	ErrEmptySecret = errors.New("secrets: secret has no value")

	// ErrAccessDenied indicates the caller's credentials may not read the secret.
	ErrAccessDenied = errors.New("secrets: access denied")

	// ErrKeyNotFound indicates a JSON secret lacks the requested key.
	ErrKeyNotFound = errors.New("secrets: key not found in secret")

	// ErrInvalidName indicates an empty secret name.
	ErrInvalidName = errors.New("secrets: secret name cannot be empty")
)
