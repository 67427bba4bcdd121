package transcription

// Request holds parameters for a transcription call.
type Request struct {
	// Audio is a complete WAV payload.
	Audio []byte `json:"-"`
	// Language is the expected language of the audio (e.g. "en"); empty lets the server detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the server's loaded model when set.
	Model string `json:"model,omitempty"`
	// WordTimestamps requests per-word timing.
	WordTimestamps bool `json:"word_timestamps,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text, empty when the server returned none.
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	Words    []Word    `json:"words,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Word is a single recognized word with timing in seconds.
type Word struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability,omitempty"`
}
