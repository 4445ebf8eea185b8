package dto

// AnalyzeResponse is returned by the analyze endpoints on success.
type AnalyzeResponse struct {
	FeedbackText string `json:"feedbackText" example:"Key mistake: \"goed\" should be \"went\"."`
	Transcript   string `json:"transcript,omitempty" example:"i goed to school yesterday"`
}

// SaveAudioResponse is the body of POST /save-audio.
type SaveAudioResponse struct {
	Message string `json:"message" example:"File processed successfully"`
	AnalyzeResponse
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	OK bool `json:"ok" example:"true"`
}
