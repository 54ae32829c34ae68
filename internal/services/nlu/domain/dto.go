package domain

// TextRequest is the body of the single stage endpoints
type TextRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

// ProcessRequest is the body of POST /nlu/process
// empty text is allowed and yields the unknown result
type ProcessRequest struct {
	Text      string `json:"text" validate:"max=2000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,session_id"`
}

// BatchRequest is the body of POST /nlu/batch
type BatchRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,dive,max=2000"`
}

// BatchResponse keeps results in request order
type BatchResponse struct {
	Count   int      `json:"count"`
	Results []Result `json:"results"`
}

// SplitResponse lists the clauses of an utterance
type SplitResponse struct {
	Parts []string `json:"parts"`
}

// StreamFrame is one websocket message from the client
type StreamFrame struct {
	Text      string `json:"text" validate:"max=2000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,session_id"`
}

// StreamReply is one websocket message to the client
type StreamReply struct {
	OK     bool    `json:"ok"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}
