// Package session decides whether the current operator may use the dashboard
// commands and keeps the credentials that back API calls.
//
// Two scopes are persisted in a small SQLite database. Local values survive
// across login sessions (the remembered user record and its token). Session
// values are keyed by a per-login session id kept in the runtime directory, so
// they disappear when the operator logs out of the machine or the rows age
// past session.max_age_hours.
//
// The Gate is advisory. The catalog API enforces authorization on every write.
package session
