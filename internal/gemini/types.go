package gemini

// Content is one role-tagged unit of the outbound context.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment inside a Content unit.
type Part struct {
	Text string `json:"text"`
}

type generateRequest struct {
	Model    string    `json:"model"`
	Contents []Content `json:"contents"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []Part `json:"parts"`
	} `json:"content"`
}
