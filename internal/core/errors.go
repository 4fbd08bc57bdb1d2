package core

import "errors"

// ErrStoreUnavailable reports that the durable store could not be opened,
// read or written. Storage errors match it under errors.Is.
var ErrStoreUnavailable = errors.New("store unavailable")
