package pool

import "errors"

var ErrSentenceNotFound = errors.New("pool: sentence not found")
