package transcript

// Generation identifies one connection attempt. Events carrying an older
// generation than the assembler's are discarded.
type Generation uint64

// Event is an inbound signal from the live service. The set is closed:
// Content, AudioStarted, Interrupted, TurnComplete, Closed and Log.
type Event interface {
	Generation() Generation
	event()
}

// Part is one piece of a content payload. Audio parts carry Data and no Text.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// Content carries zero or more parts of the counterpart's turn.
type Content struct {
	Gen          Generation
	Parts        []Part
	TurnComplete bool
}

// AudioStarted signals that synthesized speech has begun.
type AudioStarted struct{ Gen Generation }

// Interrupted signals that the previous turn was cut off.
type Interrupted struct{ Gen Generation }

// TurnComplete signals that the counterpart finished its turn.
type TurnComplete struct{ Gen Generation }

// Closed signals that the service ended the connection on its own. It is
// never emitted for a disconnect the client asked for.
type Closed struct {
	Gen    Generation
	Reason string
}

// Log is diagnostic output of the service.
type Log struct {
	Gen     Generation
	Kind    string
	Message string
}

func (e Content) Generation() Generation      { return e.Gen }
func (e AudioStarted) Generation() Generation { return e.Gen }
func (e Interrupted) Generation() Generation  { return e.Gen }
func (e TurnComplete) Generation() Generation { return e.Gen }
func (e Closed) Generation() Generation       { return e.Gen }
func (e Log) Generation() Generation          { return e.Gen }

func (Content) event()      {}
func (AudioStarted) event() {}
func (Interrupted) event()  {}
func (TurnComplete) event() {}
func (Closed) event()       {}
func (Log) event()          {}
