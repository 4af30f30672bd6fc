package usecase

import (
	"fmt"
	"strings"
)

// RequestContext identifies the caller of an operation. It is passed
// explicitly to every exposed operation.
type RequestContext struct {
	UserID      string
	GameVersion string
}

func (rc RequestContext) normalize() (RequestContext, error) {
	rc.UserID = strings.TrimSpace(rc.UserID)
	rc.GameVersion = strings.TrimSpace(rc.GameVersion)
	if rc.UserID == "" {
		return rc, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	return rc, nil
}
