package generator

import "errors"

var ErrExhaustedAttempts = errors.New("generator: no valid sentence after max attempts")
