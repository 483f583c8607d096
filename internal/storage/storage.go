package storage

import "errors"

var (
	ErrVideoExists    = errors.New("video exists")
	ErrVideoNotFound  = errors.New("video not found")
	ErrClipExists     = errors.New("clip exists")
	ErrClipNotFound   = errors.New("clip not found")
	ErrClipNotReady   = errors.New("clip has no artifact")
	ErrMergedExists   = errors.New("merged video exists")
	ErrMergedNotFound = errors.New("merged video not found")
)
