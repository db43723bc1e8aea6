package model

// ContentTypePDF is the MIME type of every document handled here
const ContentTypePDF = "application/pdf"

// Content is a fully materialized response body
type Content struct {
	Data        []byte
	ContentType string
}

// Size returns the payload length in bytes
func (c *Content) Size() int {
	return len(c.Data)
}
