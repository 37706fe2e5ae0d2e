// Package types holds the wire shapes exchanged with the interview backend.
package types

// StartResult is the response to starting an interview. Both fields are
// optional; a backend may open the session silently.
type StartResult struct {
	Transcript string `json:"transcript,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
}

// TurnResult is the backend's reply to one submitted voice turn.
type TurnResult struct {
	Transcript     string `json:"transcript"`
	AudioURL       string `json:"audio_url,omitempty"`
	IsLastQuestion bool   `json:"is_last_question"`
}

// InterviewResult is the terminal evaluation returned when a session ends.
type InterviewResult struct {
	Rating           float64  `json:"rating"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Suggestions      []string `json:"suggestions"`
	RecommendedRoles []string `json:"recommended_roles"`
}

// HistoryItem is one past session in the history listing.
type HistoryItem struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Rating         float64  `json:"rating"`
	Feedback       string   `json:"feedback"`
	JobSuggestions []string `json:"job_suggestions"`
}

// UploadAck is the implementation-defined acknowledgement for a resume upload.
type UploadAck struct {
	Message string `json:"message"`
}

// Health is the backend liveness response.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
