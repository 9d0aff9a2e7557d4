package manager

// ProgressReporter receives initialization progress in [0,1] with a short
// message. Calls are synchronous on the initializing goroutine, so
// implementations must return quickly.
type ProgressReporter interface {
	Report(progress float64, message string)
}

// ProgressFunc adapts a function to ProgressReporter.
type ProgressFunc func(progress float64, message string)

func (f ProgressFunc) Report(progress float64, message string) { f(progress, message) }

// Stage messages, in the order they are reported.
const (
	MsgStart         = "Starting model initialization..."
	MsgConnect       = "Connecting to model repository..."
	MsgConfig        = "Downloading configuration..."
	MsgTokenizer     = "Downloading tokenizer..."
	MsgWeights       = "Downloading model weights..."
	MsgLoadTokenizer = "Loading tokenizer..."
	MsgLoadConfig    = "Loading model configuration..."
	MsgLoadWeights   = "Loading model weights..."
	MsgInitModel     = "Initializing model..."
	MsgLoaded        = "Model loaded successfully!"
	MsgAlreadyLoaded = "Model already loaded"
)

// Weight downloads report byte progress inside this band.
const (
	weightsProgressMin = 0.4
	weightsProgressMax = 0.59
)

type progressSink struct {
	r    ProgressReporter
	last float64
}

func newProgressSink(r ProgressReporter) *progressSink {
	return &progressSink{r: r, last: -1}
}

// report forwards to the reporter, dropping values that would move backwards.
func (s *progressSink) report(p float64, msg string) {
	if s == nil || s.r == nil || p < s.last {
		return
	}
	s.last = p
	s.r.Report(p, msg)
}
