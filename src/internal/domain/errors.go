package domain

import "errors"

var ErrInvalidUsername = errors.New("Username must be at least 3 characters with no spaces, '|', '/' or '\\'.")
var ErrInvalidPassword = errors.New("Password must be at least 4 characters.")
var ErrPasswordTooLong = errors.New("Password must be at most 72 bytes.")
var ErrPasswordMismatch = errors.New("Passwords do not match.")
var ErrNegativeInitialBalance = errors.New("Initial balance cannot be negative.")
var ErrDuplicateUsername = errors.New("Username already exists.")
var ErrInvalidCredentials = errors.New("Invalid credentials.")
var ErrInvalidAmount = errors.New("Amount must be positive, at most 1e15, with at most 8 decimal places.")
var ErrAccountNotFound = errors.New("Account not found.")
var ErrInsufficientFunds = errors.New("Insufficient funds.")
var ErrSameAccount = errors.New("Cannot transfer to the same account.")

// ErrRecordNotFound is returned by stores for an unknown key.
var ErrRecordNotFound = errors.New("Record not found")
