package classify

// Item is one image to evaluate together with its known class.
type Item struct {
	Class  string
	FileID string
	Image  Image
}

// Outcome is the result of classifying a single image: either a prediction
// or the error that prevented one.
type Outcome struct {
	Prediction Prediction
	Err        error
}

// OK reports whether the outcome carries a prediction.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Record is the evaluated outcome for one image. Predicted fields are nil
// when classification failed.
type Record struct {
	Class           string  `json:"class"`
	File            string  `json:"file"`
	PredictedPrompt *string `json:"predicted_label"`
	PredictedClass  *string `json:"predicted_class"`
	Confidence      float64 `json:"confidence"`
	Correct         bool    `json:"is_correct"`
}

// Failed reports whether the record has no prediction.
func (r Record) Failed() bool {
	return r.PredictedPrompt == nil
}
