package repository

import "errors"

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrOwnerNotFound  = errors.New("note owner not found in tenant")
)
