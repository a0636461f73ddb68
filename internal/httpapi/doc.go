// Package httpapi exposes the ledger's boundary operations as a small local
// JSON API for a front-end process. Handlers only translate between HTTP and
// the engine, timesheet and audit services; every rule lives there.
//
// The acting user is read from the X-Actor header (falling back to the
// configured default) and the remote address is stamped on audit entries as
// their source.
package httpapi
