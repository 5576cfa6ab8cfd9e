// Package codegen generates random short codes.
package codegen

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the 62-character alphanumeric alphabet codes are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrInvalidLength is returned when a code of non-positive length is requested.
var ErrInvalidLength = errors.New("code length must be positive")

// Base62 draws codes uniformly at random from Alphabet using a cryptographic source.
type Base62 struct{}

// Generate returns a random code of the given length.
func (Base62) Generate(length int) (string, error) {
	const op = "codegen.Base62.Generate"

	if length <= 0 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidLength)
	}

	code, err := gonanoid.Generate(Alphabet, length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate code: %w", op, err)
	}

	return code, nil
}
