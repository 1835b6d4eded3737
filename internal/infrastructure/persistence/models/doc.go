// Package models contains GORM persistence models that map to database tables.
// These models are separate from domain entities so the domain layer stays
// free of ORM tags; each model converts itself with ToDomain and the
// ...ModelFromDomain constructors.
//
// Structure:
// - base.go: shared column groups (localized names)
// - trade.go: transactions, their items and master data read by builders
// - printing.go: settings, document types, doc groups and generated documents
package models
