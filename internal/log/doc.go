// Package log provides logging with automatic redaction of personal
// information, built on top of the standard slog package.
//
// Registry pages list names, phone numbers, e-mail addresses and street
// addresses of HOA officers. Debug output may echo parts of those pages,
// so every logger created here wraps its handler in a RedactingHandler
// that masks:
//   - Attributes whose key names contact data (email, phone, address, ...)
//   - HTTP credentials (cookie, authorization, proxy credentials)
//   - Any string value containing an e-mail address or a phone number
//
// Even in verbose mode these values are masked.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("contact parsed",
//	    "entity", "1234",
//	    "phone", "(801) 555-1234", // logged as ***REDACTED***
//	)
//
//	slog.SetDefault(logger)
package log
