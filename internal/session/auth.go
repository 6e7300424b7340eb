package session

import (
	"context"
	"errors"
)

// ErrForceRefreshDenied is returned when a non-privileged requester asks
// for a force refresh. Force refresh rewrites shared cache entries that
// every requester sees, so it is restricted.
var ErrForceRefreshDenied = errors.New("force refresh requires a privileged requester")

// Authorizer decides whether a requester may bypass the shared caches.
// Identity management is out of scope; callers plug in whatever backs
// their notion of privilege.
type Authorizer interface {
	// IsPrivileged reports whether the user may force refresh.
	IsPrivileged(ctx context.Context, userID string) bool
}

// StaticAuthorizer is an Authorizer backed by a fixed set of user IDs.
type StaticAuthorizer struct {
	privileged map[string]bool
}

// NewStaticAuthorizer creates an authorizer that privileges exactly the
// given user IDs.
func NewStaticAuthorizer(userIDs ...string) *StaticAuthorizer {
	privileged := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		privileged[id] = true
	}
	return &StaticAuthorizer{privileged: privileged}
}

// IsPrivileged implements Authorizer.
func (a *StaticAuthorizer) IsPrivileged(_ context.Context, userID string) bool {
	return a.privileged[userID]
}
