// Package handler is the first layer after the router.
//
// It binds and validates requests with the validation package, adapts
// form and JSON input into the catalog's prompt answers, calls the
// service layer and writes HTML pages, redirects or JSON.
package handler
