package domain

import "time"

// AuthResult is returned by login and register on both backends.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// DeleteResult is the acknowledgement returned by delete operations.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BackendStatus is the reachability bookkeeping for the real backend.
type BackendStatus struct {
	IsOnline   bool      `json:"isOnline"`
	LastCheck  time.Time `json:"lastCheck"`
	RetryCount int       `json:"retryCount"`
}

// Source names which backend answered a request.
type Source string

const (
	SourceRemote    Source = "remote"
	SourceSimulated Source = "simulated"
)
