package types

// TaskOption is one entry of the task picker
type TaskOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TaskOptions is the curated task vocabulary offered to users. Searches may still
// carry any other pipeline tag.
var TaskOptions = []TaskOption{
	{Value: TaskAutoDetect, Label: "Auto-Detect from Query"},
	{Value: "text-generation", Label: "Text Generation"},
	{Value: "text-to-image", Label: "Image Generation"},
	{Value: "text-classification", Label: "Text Classification"},
	{Value: "question-answering", Label: "Question Answering"},
	{Value: "summarization", Label: "Summarization"},
	{Value: "translation", Label: "Translation"},
	{Value: "fill-mask", Label: "Fill Mask"},
	{Value: "token-classification", Label: "Token Classification"},
	{Value: "sentence-similarity", Label: "Sentence Similarity"},
}
