// Package server implements the sheet-data HTTP endpoint: a stateless handler
// that reads one spreadsheet cell per request, plus its router, middleware and
// listener.
package server
