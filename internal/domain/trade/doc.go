// Package trade holds the transaction read model consumed by document
// generation: the transaction header, its parties, line items and
// transport details, plus the numbering helpers for transaction numbers.
package trade
