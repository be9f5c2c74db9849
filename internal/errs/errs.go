// Package errs defines the error shapes returned to clients.
//
// Every failure that reaches the HTTP layer is funneled into an HTTPError
// so that JSON clients and the admin pages receive the same code, message
// and field-level details.
package errs
