package config

import "errors"

var (
	errNotAbsolute = errors.New("url is not absolute")
	errPortRange   = errors.New("port out of range")
)
