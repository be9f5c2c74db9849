// Package validation contains the logic for validating request data.
//
// It uses the `validator` library to enforce rules defined in struct
// tags and turns validation errors into field errors the client can
// understand. Field names follow the `json` tag, so errors name the same
// keys clients send (nombre, precio, ...).
package validation
