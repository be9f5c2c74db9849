// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// input adapted by the handlers, runs the catalog operations, persists
// through the repository and emits change notifications.
package service
