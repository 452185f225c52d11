package gemini

// RequestData is the JSON user message sent to the model.
type RequestData struct {
	Text   string `json:"text"`
	Source string `json:"source_language"`
	Target string `json:"target_language"`
}

// ResponseData is the JSON object the model is asked to return.
type ResponseData struct {
	Translation string `json:"translation"`
}
