package protocol

import "errors"

var ErrQueueFull = errors.New("queue full")
