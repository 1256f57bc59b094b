package service

import (
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/model"
)

// CanModify is the object-level authorization predicate: mutating an
// existing snippet is permitted only to its authenticated owner. Reads never
// call this — they are open to everyone, anonymous included.
func CanModify(p auth.Principal, snippet *model.Snippet) bool {
	return p.Authenticated && p.UserID == snippet.OwnerID
}
