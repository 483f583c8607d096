package service

import "errors"

var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrClipNotFound   = errors.New("clip not found")
	ErrMergedNotFound = errors.New("merged video not found")
	ErrClipNotReady   = errors.New("clip has no artifact")

	ErrDecodeFailed       = errors.New("cannot open media file")
	ErrSizeExceeded       = errors.New("file size exceeds the maximum limit")
	ErrDurationOutOfRange = errors.New("media duration out of allowed range")
	ErrInvalidRange       = errors.New("invalid trim range")
	ErrNotEnoughClips     = errors.New("at least two clips are required")
	ErrTrimFailed         = errors.New("cannot trim media file")
	ErrMergeFailed        = errors.New("cannot merge media files")

	ErrTokenExpired  = errors.New("link expired")
	ErrTokenTampered = errors.New("link signature mismatch")
)
