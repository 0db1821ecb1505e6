package notion

// TextContent is the text payload of a rich text item.
type TextContent struct {
	Content string `json:"content"`
}

// RichText is one rich text run. PlainText is populated on reads only.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// String returns the visible text of the run.
func (r RichText) String() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

// SelectOption names a select or multi-select option.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a date property value; only the start is used.
type DateValue struct {
	Start string `json:"start"`
}

// Property is a page property value. Only the field matching Type is set on
// reads; writes set exactly one field.
type Property struct {
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

// FileRef points at an externally hosted or Notion-hosted file.
type FileRef struct {
	Type     string  `json:"type"`
	External *URLRef `json:"external,omitempty"`
	File     *URLRef `json:"file,omitempty"`
}

// URLRef wraps a file URL.
type URLRef struct {
	URL string `json:"url"`
}

// URL returns the file location regardless of hosting.
func (f *FileRef) URL() string {
	switch {
	case f == nil:
		return ""
	case f.External != nil:
		return f.External.URL
	case f.File != nil:
		return f.File.URL
	}
	return ""
}

// Page is a database row.
type Page struct {
	ID         string              `json:"id"`
	Cover      *FileRef            `json:"cover"`
	Properties map[string]Property `json:"properties"`
}

// Block is a page content block. Only image payloads are decoded.
type Block struct {
	Object string   `json:"object,omitempty"`
	ID     string   `json:"id,omitempty"`
	Type   string   `json:"type"`
	Image  *FileRef `json:"image,omitempty"`
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type pageList struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type blockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

type appendRequest struct {
	Children []Block `json:"children"`
	After    string  `json:"after,omitempty"`
}

type updateRequest struct {
	Properties map[string]Property `json:"properties,omitempty"`
	Cover      *FileRef            `json:"cover,omitempty"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func textProperty(kind, content string) Property {
	runs := []RichText{{Type: "text", Text: &TextContent{Content: content}}}
	if kind == "title" {
		return Property{Title: runs}
	}
	return Property{RichText: runs}
}

func imageBlock(url string) Block {
	return Block{
		Object: "block",
		Type:   "image",
		Image:  &FileRef{Type: "external", External: &URLRef{URL: url}},
	}
}
