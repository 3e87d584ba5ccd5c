package audit

import "fmt"

// Detail is either a free-text message or a set of fields.
type Detail struct {
	text   string
	fields map[string]any
}

// Text builds a message detail.
func Text(message string) Detail {
	return Detail{text: message}
}

// Fields builds a structured detail.
func Fields(fields map[string]any) Detail {
	return Detail{fields: fields}
}

// Normalize returns the canonical record shape of the detail. A text detail
// becomes {"message": text}.
func (d Detail) Normalize() map[string]any {
	if d.fields != nil {
		return d.fields
	}
	return map[string]any{"message": d.text}
}

func (d Detail) String() string {
	if d.fields != nil {
		return fmt.Sprint(d.fields)
	}
	return d.text
}
