// Package logging builds the slog logger shared by the CLI and clients.
//
// Records carry service=gucfop and the build version. Output defaults to
// stderr so that command results on stdout can be piped.
//
//	logging:
//	  level: info      # debug | info | warn | error
//	  format: json     # json | text
//	  output: stderr   # stderr | stdout | discard
//
// Secret values are never logged; log the secret name instead.
package logging
