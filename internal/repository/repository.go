// Package repository encapsule l'accès MongoDB. Les services ne dépendent
// que des interfaces, ce qui permet de les tester avec des mocks.
package repository

import "errors"

// ErrNotFound est renvoyé quand un document n'existe pas
var ErrNotFound = errors.New("document introuvable")
