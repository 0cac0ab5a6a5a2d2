package resample

import "errors"

// ErrUnsupportedRatio is returned by Init when no filter chain exists for the
// requested input and output rates.
var ErrUnsupportedRatio = errors.New("resample: unsupported sample rate ratio")
