package domain

import "errors"

var (
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrEmailTaken           = errors.New("college email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSelfFollow           = errors.New("cannot follow yourself")
	ErrAlreadyFollowing     = errors.New("already following")
	ErrNotFollowing         = errors.New("not following")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPostNotFound         = errors.New("post not found")
)
