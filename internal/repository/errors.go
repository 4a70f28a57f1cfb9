package repository

import "errors"

// Common repository errors
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrDeploymentNotFound = errors.New("deployment not found")
	ErrInvalidUUID        = errors.New("invalid UUID format")
)
