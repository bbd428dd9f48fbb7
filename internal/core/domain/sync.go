package domain

import (
	"errors"
	"time"
)

var ErrOffline = errors.New("device is offline")

type SyncMetadata struct {
	LastSyncAt   *time.Time `json:"lastSyncAt,omitempty"`
	SyncCursor   string     `json:"syncCursor,omitempty"`
	PendingCount int        `json:"pendingCount"`
}

type SyncResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
