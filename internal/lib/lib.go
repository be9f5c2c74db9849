// Package lib groups supporting libraries that do not fit strictly into
// other layers: background job processing (Asynq on Redis), the Resend
// email client and small shared helpers.
package lib
