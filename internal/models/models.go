package models

// Document is the currently loaded upload and its extracted text
type Document struct {
	FileID   string
	Filename string
	Text     string
}

// UsedChunk reports one retrieved chunk in a query response
type UsedChunk struct {
	Idx   int     `json:"idx"`
	Score float32 `json:"score"`
	Text  string  `json:"text"`
}

// QuizItem is a single fill-in-the-blank multiple choice question
type QuizItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type QueryResponse struct {
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	UsedChunks []UsedChunk `json:"used_chunks"`
}

type QuizRequest struct {
	NumQuestions int `json:"num_questions"`
}

type QuizResponse struct {
	Quiz []QuizItem `json:"quiz"`
}

type UploadResponse struct {
	Status        string   `json:"status"`
	FileID        string   `json:"file_id"`
	Filename      string   `json:"filename"`
	SummaryPoints []string `json:"summary_points"`
}

type SummaryResponse struct {
	FileID   string   `json:"file_id"`
	Filename string   `json:"filename"`
	Summary  []string `json:"summary"`
}

type StatusResponse struct {
	Status       string `json:"status"`
	FileID       string `json:"file_id,omitempty"`
	Filename     string `json:"filename,omitempty"`
	NumChunks    *int   `json:"num_chunks,omitempty"`
	SummaryCount *int   `json:"summary_count,omitempty"`
}

// DocMeta is the best-effort on-disk metadata for the current upload
type DocMeta struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	NumChunks int    `json:"num_chunks"`
}
