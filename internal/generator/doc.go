// Package generator is the HTTP transport to the remote assignment-generation
// service. It uploads the two spreadsheets as a multipart form and turns the
// response into either a binary payload or a typed error from
// internal/errors.
package generator
