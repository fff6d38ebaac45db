package chat

// Citation points at a retrieved chunk that grounded an answer.
type Citation struct {
	Content string
	Source  string
	Title   string
	Score   float64
}

// Response is the final answer for one query. Citations are empty when the
// query was answered from a canned response.
type Response struct {
	Text      string
	Citations []Citation
}
