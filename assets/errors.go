package assets

import "errors"

var (
	// ErrUnknownExtension marks a file whose extension no registered
	// loader accepts.
	ErrUnknownExtension = errors.New("assets: no loader for extension")

	// ErrStoreClosed marks loads requested after Close.
	ErrStoreClosed = errors.New("assets: store closed")
)
