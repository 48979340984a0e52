// Package apperr centralise la taxonomie d'erreurs de l'API : chaque échec
// de handler est converti en un Kind, puis Abort l'envoie au client sous la
// forme uniforme {success: false, message}. Le détail technique n'est jamais
// exposé, seulement loggé côté serveur.
package apperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // cause technique, loggée uniquement
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// StatusCode mappe un Kind vers son code HTTP
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Abort est le répondeur central : toutes les erreurs de handlers passent
// par ici
func Abort(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal("Erreur interne du serveur", err)
	}

	if appErr.Err != nil {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, appErr.Err)
	}

	c.AbortWithStatusJSON(appErr.Kind.StatusCode(), gin.H{
		"success": false,
		"message": appErr.Message,
	})
}
