//go:build !deadlock

// Package cmtsync aliases sync.Mutex/RWMutex so the host-side locking
// (eventlog.Log, host.Session) can be swapped for github.com/sasha-s/go-deadlock's deadlock
// detector in debug builds without touching call sites, the same trick
// the teacher's own libs/sync package plays with a build tag.
package cmtsync

import "sync"

// Mutex is sync.Mutex in normal builds; see mutex_deadlock.go for the
// "deadlock" build-tag variant.
type Mutex = sync.Mutex

// RWMutex is sync.RWMutex in normal builds.
type RWMutex = sync.RWMutex
