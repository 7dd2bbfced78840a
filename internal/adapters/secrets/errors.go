package secrets

import "errors"

// ErrSecretNotFound is returned when the path holds no secret
var ErrSecretNotFound = errors.New("secret not found")
