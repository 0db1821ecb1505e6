// Package notion is the catalog store backed by a Notion database.
//
// Client speaks the Notion REST API: database queries, page updates, block
// children, and page covers. Store maps pages to catalog entries using the
// property names from the [notion.properties] config section and implements the
// enrichment store contract. Pagination is handled internally, so callers
// always receive complete lists.
package notion
