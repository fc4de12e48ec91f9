package retrieve

import "errors"

var (
	// ErrEmptyMarkup is returned when a request succeeds but yields no markup.
	ErrEmptyMarkup = errors.New("empty markup")

	// ErrStatus is returned when the registry answers with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrUnsupportedProxy is returned for proxy URLs that are neither
	// SOCKS5 nor HTTP(S).
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme: use socks5, socks5h, http or https")
)
