package util

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrDirectoryUnavailable = errors.New("dependent directory unavailable")
	ErrProbeUnavailable     = errors.New("classroom link probe unavailable")
	ErrFetchUnavailable     = errors.New("classroom data unavailable")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDependentNotFound  = errors.New("dependent not found")
	ErrRelationExists     = errors.New("parent-student relation already exists")
	ErrRelationNotFound   = errors.New("parent-student relation not found")
	ErrInvalidLinkingCode = errors.New("linking code not valid or already used")
	ErrLinkingCodeExpired = errors.New("linking code expired")
)
