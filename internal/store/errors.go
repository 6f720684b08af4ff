package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound means the addressed document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrMapping wraps a mapFn failure: the document exists but could not be
	// turned into its typed shape. Distinct from absence on purpose.
	ErrMapping = errors.New("document mapping failed")
)

// joinMapping tags an error as a mapping failure while keeping the cause text.
func joinMapping(err error) error {
	return fmt.Errorf("%w: %v", ErrMapping, err)
}

// mongo server codes that indicate a filter/sort combination with no usable index
const (
	codeIndexNotFound        = 27
	codeNoQueryExecutionPlan = 291
)

// IsMissingIndex reports whether err is the "missing composite index" class of
// query failure, which callers surface with an actionable message instead of a
// generic one.
func IsMissingIndex(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if ce.Code == codeIndexNotFound || ce.Code == codeNoQueryExecutionPlan {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no query solutions") || strings.Contains(msg, "index not found")
}

// Describe translates a storage error into a short human-facing message
// suitable for a toast. Every write path funnels failures through here.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The record no longer exists."
	case errors.Is(err, ErrMapping):
		return "The record could not be read. It may have an unexpected shape."
	case IsMissingIndex(err):
		return "This view needs a database index that has not been created yet. Ask an administrator to add it."
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return "The request timed out. Please try again."
	case mongo.IsDuplicateKeyError(err):
		return "A record with the same identifier already exists."
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err):
		return "The database could not be reached. Check your connection and try again."
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 13: // Unauthorized
			return "You do not have permission to perform this action."
		case 50: // ExceededTimeLimit
			return "The request took too long. Please try again."
		}
	}
	return "Something went wrong saving your changes. Please try again."
}
