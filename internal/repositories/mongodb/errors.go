package mongodb

import (
	"errors"
	"fmt"
	"strings"

	"artisan/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

// translateError maps driver errors onto the repository sentinels.
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return interfaces.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return &interfaces.DuplicateKeyError{Field: duplicateKeyField(err)}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// duplicateKeyField pulls the field out of an E11000 message such as
// "... index: email_1 dup key: { email: \"a@x.com\" }".
func duplicateKeyField(err error) string {
	msg := err.Error()
	i := strings.Index(msg, "index: ")
	if i < 0 {
		return ""
	}
	rest := msg[i+len("index: "):]
	if j := strings.IndexByte(rest, ' '); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSuffix(rest, "_1")
}
