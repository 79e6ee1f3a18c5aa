package entities

import "encoding/json"

// Media is a binary payload stored inline in its owning row together with
// its MIME type. The raw bytes never leave the server as JSON; clients fetch
// them through the media endpoints.
type Media struct {
	MIMEType string `gorm:"column:mime_type;size:100"`
	Data     []byte `gorm:"column:data"`
}

// Size returns the payload length in bytes.
func (m Media) Size() int {
	return len(m.Data)
}

// IsEmpty reports whether the payload has no bytes.
func (m Media) IsEmpty() bool {
	return len(m.Data) == 0
}

func (m Media) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MIMEType string `json:"mime_type"`
		Size     int    `json:"size"`
	}{
		MIMEType: m.MIMEType,
		Size:     len(m.Data),
	})
}
