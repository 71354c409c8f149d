package models

type DocumentUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	TextContent string `json:"text_content,omitempty"`
}

type DocumentText struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}
