package models

const (
	BlankMarker   = "_____"
	NoAnswerFound = "No relevant information found."
	StatusReady   = "ready"
	StatusNoFile  = "no_file"
)

var (
	QAPromptTemplate = `You are a helpful assistant. Use the CONTEXT to answer the QUESTION succinctly.

CONTEXT:
%s

QUESTION: %s

Answer:`
)
