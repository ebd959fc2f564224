package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNoSnapshot = errors.New("no dataset snapshot loaded")
	ErrLoad       = errors.New("load dataset")
)
