package child

import "errors"

var ErrChildNotFound = errors.New("child record not found")
