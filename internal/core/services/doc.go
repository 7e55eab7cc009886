// Package services holds the combimatch core: the search engine, the
// finalization manager and the Session that serialises them, plus the
// settings and report services. Everything here talks to storage,
// config and metrics only through the driven ports.
package services
