package audit

// Context carries the request data an audit entry is enriched with. It is
// passed explicitly with every command. Every field is optional.
type Context struct {
	RequestID string
	Country   string
	IP        string
	UserID    *int64
}
