package domain

import "errors"

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrMonitorNotFound = errors.New("monitor not found")
)
