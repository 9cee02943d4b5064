package logger

// Logger is the narrow structured-logging contract the pipeline components
// depend on. The component tag identifies the emitting stage.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Nop discards everything. Library callers and tests that do not care about
// log output pass this instead of wiring a writer.
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Debug(string, string, map[string]interface{})   {}
func (Nop) Info(string, string, map[string]interface{})    {}
func (Nop) Warning(string, string, map[string]interface{}) {}
func (Nop) Error(string, error, map[string]interface{})    {}
