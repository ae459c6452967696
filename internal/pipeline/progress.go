package pipeline

// Render stages reported through ProgressCallback.
const (
	StageContext  = "context"
	StageFill     = "fill"
	StageLayout   = "layout"
	StageAssemble = "assemble"
	StagePaginate = "paginate"
)

// ProgressEvent represents a progress update during a render
type ProgressEvent struct {
	Stage      string `json:"stage"`
	Message    string `json:"message"`
	EmissionID string `json:"emission_id,omitempty"`
	Content    any    `json:"content,omitempty"`
}

// ProgressCallback is called when render progress occurs
type ProgressCallback func(event ProgressEvent)

// emitProgress calls the progress callback if configured
func (e *Engine) emitProgress(emissionID, stage, message string, content any) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(ProgressEvent{
			Stage:      stage,
			Message:    message,
			EmissionID: emissionID,
			Content:    content,
		})
	}
}

// WithProgress returns a copy of the engine that reports to callback
// instead of the configured one. The copy shares the paginator.
func (e *Engine) WithProgress(callback ProgressCallback) *Engine {
	clone := *e
	clone.opts.OnProgress = callback
	return &clone
}
