package entity

// BatchJob is the validated, immutable input of one run.
type BatchJob struct {
	Request GenerationRequest
	Colors  ColorSpec
	Params  EncodingParameters
	Output  OutputSpec
}
