package mines

import "errors"

// ErrInvalidConfiguration is returned by board constructors when the
// requested layout cannot be built.
var ErrInvalidConfiguration = errors.New("invalid board configuration")
