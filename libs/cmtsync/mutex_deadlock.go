//go:build deadlock

package cmtsync

import "github.com/sasha-s/go-deadlock"

// Mutex is deadlock.Mutex when built with -tags deadlock, trading a small
// amount of overhead for a deadlock detector during development.
type Mutex = deadlock.Mutex

// RWMutex is deadlock.RWMutex when built with -tags deadlock.
type RWMutex = deadlock.RWMutex
