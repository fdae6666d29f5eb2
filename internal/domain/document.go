package domain

import "maps"

// Google Drive MIME types the fetcher distinguishes.
const (
	MimeGoogleDoc = "application/vnd.google-apps.document"
	MimeTextPlain = "text/plain"
)

// FileMeta is the remote metadata needed to pick a download strategy.
type FileMeta struct {
	ID       string
	Name     string
	MimeType string
	Size     int64 // 0 for native documents, which have no stored size
}

// NeedsExport reports whether the file is a native document that must be exported to text.
func (m FileMeta) NeedsExport() bool {
	return m.MimeType == MimeGoogleDoc
}

// FetchResult is the outcome of fetching a single file.
type FetchResult struct {
	ID   string
	Text string
	Err  error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool { return r.Err == nil }

// DocumentMap maps a file id to its UTF-8 text.
type DocumentMap map[string]string

// Documents is the successfully fetched subset of a request, in request order.
type Documents struct {
	order []string
	texts DocumentMap
}

// NewDocuments collapses per-file results into Documents, dropping failures.
// Later duplicates of an id are ignored.
func NewDocuments(results []FetchResult) Documents {
	d := Documents{texts: make(DocumentMap, len(results))}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		if _, dup := d.texts[r.ID]; dup {
			continue
		}
		d.order = append(d.order, r.ID)
		d.texts[r.ID] = r.Text
	}
	return d
}

// Count returns the number of fetched documents.
func (d Documents) Count() int { return len(d.order) }

// Empty reports whether nothing was fetched.
func (d Documents) Empty() bool { return len(d.order) == 0 }

// IDs returns the fetched ids in request order.
func (d Documents) IDs() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Map returns a copy of the id → text mapping.
func (d Documents) Map() DocumentMap { return maps.Clone(d.texts) }

// First returns the first fetched document in request order.
func (d Documents) First() (id, text string, ok bool) {
	if len(d.order) == 0 {
		return "", "", false
	}
	id = d.order[0]
	return id, d.texts[id], true
}
