// Package postgres provides the PostgreSQL-backed implementation of the
// asset library reader defined in internal/store, together with the embedded
// schema migrations for the assets and styles tables.
package postgres
