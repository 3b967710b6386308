// Package forum holds the domain shared by the discussion-list client and the
// API server: discussions, list parameters, the document envelope exchanged
// over HTTP and the Store contract the pagination controller fetches through.
package forum
