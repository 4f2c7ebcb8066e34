package constants

import "time"

// File and directory permissions.
const (
	// TokenDirPerm is the permission for token store directories.
	TokenDirPerm = 0750

	// TokenFilePerm is the permission for token store files.
	TokenFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultRequestTimeout is the default timeout applied to each physical call.
	DefaultRequestTimeout = 100 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// StoreOpenTimeout bounds how long a persistent token store waits for its file lock.
	StoreOpenTimeout = 1 * time.Second
)

// Retry limits.
const (
	// DefaultTransportRetryMax is the maximum number of connection-level retries.
	DefaultTransportRetryMax = 2

	// LowRetryMax is the default attempt budget for status-code retries.
	LowRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between transport retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)
