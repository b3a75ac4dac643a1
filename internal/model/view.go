package model

// MessageKind tells the presentation layer how to style ViewState.Message.
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageInfo
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageInfo:
		return "info"
	case MessageError:
		return "error"
	default:
		return "none"
	}
}

// Phase is the orchestrator's coarse state.
type Phase int

const (
	PhaseIdle    Phase = iota // no complete selection
	PhaseLoading              // at least one current request in flight
	PhaseReady                // data or an explicit empty/error message
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "idle"
	}
}

// ViewState is what the presentation layer renders. The orchestrator owns it;
// readers only ever receive copies.
type ViewState struct {
	Historical  []SeriesPoint
	Forecast    []ForecastPoint
	Loading     bool
	Message     string
	MessageKind MessageKind
}

// Clone returns a deep copy, so callers cannot mutate orchestrator state.
func (v ViewState) Clone() ViewState {
	out := v
	if v.Historical != nil {
		out.Historical = make([]SeriesPoint, len(v.Historical))
		for i, p := range v.Historical {
			if p.Value != nil {
				p.Value = Float(*p.Value)
			}
			out.Historical[i] = p
		}
	}
	if v.Forecast != nil {
		out.Forecast = append([]ForecastPoint(nil), v.Forecast...)
	}
	return out
}

// HasMessage reports whether a message should be shown.
func (v ViewState) HasMessage() bool {
	return v.MessageKind != MessageNone && v.Message != ""
}
