package models

type AgentResult struct {
	Name       string   `json:"name"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Status     string   `json:"status"`
}

type AnalyzeResponse struct {
	ID                           string        `json:"id"`
	ResumeCharacterCount         int           `json:"resume_character_count"`
	JobDescriptionCharacterCount int           `json:"job_description_character_count"`
	AgentResults                 []AgentResult `json:"agent_results"`
	CombinedSummary              string        `json:"combined_summary"`
	ResumeExcerpt                string        `json:"resume_excerpt"`
}

type AnalysisResponse struct {
	ID              string        `json:"id"`
	Status          string        `json:"status"`
	JobDescription  string        `json:"job_description"`
	AgentResults    []AgentResult `json:"agent_results"`
	CombinedSummary string        `json:"combined_summary"`
	ResumeExcerpt   string        `json:"resume_excerpt"`
	CreatedAt       string        `json:"created_at"`
}

type WebsiteSummaryRequest struct {
	URL string `json:"url"`
}

type WebsiteSummaryResponse struct {
	WebsiteURL     string `json:"website_url"`
	WebsiteDetails string `json:"website_details"`
	Summary        string `json:"summary"`
}
