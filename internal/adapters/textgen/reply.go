package textgen

import "strings"

// Unknown is the answer when the reply carries no usable text.
const Unknown = "Unknown"

// Reply is the text of the first candidate, possibly empty.
type Reply struct {
	Text string
}

// FirstWord returns the first whitespace-delimited token of the reply
// text, or Unknown when there is none.
func (r Reply) FirstWord() string {
	fields := strings.Fields(r.Text)
	if len(fields) == 0 {
		return Unknown
	}
	return fields[0]
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content *content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

func newGenerateRequest(prompt string) generateRequest {
	return generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
}

// reply walks candidates[0].content.parts[0].text.
func (g generateResponse) reply() Reply {
	if len(g.Candidates) == 0 || g.Candidates[0].Content == nil {
		return Reply{}
	}
	parts := g.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return Reply{}
	}
	return Reply{Text: parts[0].Text}
}
