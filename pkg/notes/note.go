// Package notes defines the domain types exchanged with the remote notes service.
package notes

// Note is a user-owned record as returned by the remote service. The client
// holds transient cached copies only; identifiers are assigned server-side
// and never invented locally.
type Note struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	IsPinned  bool     `json:"isPinned"`
	CreatedOn string   `json:"createdOn"`
}

// User is the authenticated account profile. Fetched, never mutated here.
type User struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Fields carries the editable portion of a note for create and edit calls.
type Fields struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
