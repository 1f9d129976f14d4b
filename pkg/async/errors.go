package async

import "errors"

var ErrPanic = errors.New("async: recovered from panic")
