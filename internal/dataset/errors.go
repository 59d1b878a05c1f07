package dataset

import "errors"

// Dataset errors. ErrRootNotFound aborts a scan; the others are returned from
// image loads and surface as per-image classification failures.
var (
	ErrRootNotFound      = errors.New("dataset root not found")
	ErrImageTooLarge     = errors.New("image exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrRenderFailed      = errors.New("page render failed")
)
