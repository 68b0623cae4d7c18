package domain

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrSessionNotFound = errors.New("session not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrStorage         = errors.New("storage unavailable")
	ErrTransport       = errors.New("transport failure")

	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageTooLong = errors.New("message too long")
	ErrRateLimited    = errors.New("rate limited")

	ErrAlreadyBanned = errors.New("user already banned")
	ErrBanNotFound   = errors.New("user is not banned")
	ErrSelfBan       = errors.New("cannot ban yourself")
)
