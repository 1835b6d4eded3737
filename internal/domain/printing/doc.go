// Package printing contains the document generation bounded context.
// It describes trade documents (invoices, packing lists, CMR, Form A),
// the registries that map a doc_code to its template folder, builder,
// numbering prefix and persisted document type, and the doc-group and
// generated-document records written after each render.
package printing
