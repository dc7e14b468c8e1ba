package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred in the storage layer during your request")
	ErrResourceNotFound = errors.New("not found")
	ErrIDNotUnique      = errors.New("a resource with this id already exists")
)

// Vendor errors
var (
	ErrVendorNameRequired  = errors.New("the vendor name must be set")
	ErrVendorNameNotUnique = errors.New("a vendor with this name already exists")
	ErrVendorInUse         = errors.New("cannot delete vendor that is used in purchases")
)

// Budget errors
var (
	ErrBudgetCodeRequired   = errors.New("the budget code must be set")
	ErrBudgetNameRequired   = errors.New("the budget name must be set")
	ErrBudgetCodeNotUnique  = errors.New("a budget with this code already exists")
	ErrBudgetInUse          = errors.New("cannot delete budget that is used in purchases")
	ErrNegativeBudgetAmount = errors.New("yearly budget amounts must not be negative")
	ErrInvalidYear          = errors.New("the fiscal year must be a four digit year")
)

// Purchase errors
var (
	ErrOrderNumberRequired     = errors.New("the order number must be set")
	ErrOrderNumberNotUnique    = errors.New("a purchase with this order number already exists")
	ErrDateRequired            = errors.New("the date must be set")
	ErrInvalidDate             = errors.New("the date must be formatted as YYYY-MM-DD")
	ErrVendorRequired          = errors.New("the vendor must be set")
	ErrInvalidQuantity         = errors.New("quantity must be a positive integer")
	ErrInvalidUnitPrice        = errors.New("unit price must not be negative")
	ErrInvalidAllocationAmount = errors.New("budget allocation amounts must be positive")
	ErrBudgetRequired          = errors.New("the budget of an allocation must be set")
	ErrAllocationMismatch      = errors.New("total budget allocation must match total purchase amount")
	ErrStatusNotPending        = errors.New("purchase status is already")
	ErrInvalidStatus           = errors.New("the status must be one of Pending, Approved, Rejected")
)

// Storage maintenance errors
var (
	ErrBackupUnsupported = errors.New("backup and restore are only supported for file-backed sqlite databases")
	ErrBackupInvalid     = errors.New("the backup file is not a readable database")
	ErrImportHeader      = errors.New("the CSV header is missing required columns")
)
