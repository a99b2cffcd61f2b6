package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrEstimateNotFound   = errors.New("estimate not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrDuplicateRowID     = errors.New("duplicate row id in grid")
	ErrUnknownProductType = errors.New("unknown product type")
	ErrRulePackNotFound   = errors.New("rule pack not found for product type")
	ErrEstimateNotDraft   = errors.New("estimate is not editable in its current status")
	ErrInvalidExportKind  = errors.New("invalid export format; allowed: csv, xlsx")
)
