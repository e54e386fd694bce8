package port

import "context"

// RecognizeInput carries one document for a model call.
type RecognizeInput struct {
	FileBytes []byte
	MimeType  string
	Prompt    string
}

// RecognizeOutput is the model's raw text answer.
type RecognizeOutput struct {
	Text      string
	ModelUsed string
}

// DocumentRecognizer abstracts a single remote model endpoint.
type DocumentRecognizer interface {
	Recognize(ctx context.Context, input RecognizeInput) (*RecognizeOutput, error)
}
