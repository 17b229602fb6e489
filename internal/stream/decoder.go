package stream

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/novelpartners/curriculum-assistant/internal/types"
)

// Decoder incrementally parses an event stream body. Feed it arbitrary byte
// chunks; it buffers a partial trailing unit until its delimiter arrives and
// skips malformed units instead of failing the whole stream.
type Decoder struct {
	buf     bytes.Buffer
	skipped int
}

func NewDecoder() *Decoder { return &Decoder{} }

// Feed appends raw bytes and returns every event completed by this chunk.
func (d *Decoder) Feed(p []byte) []Event {
	d.buf.Write(p)

	var events []Event
	for {
		raw := d.buf.Bytes()
		idx := bytes.Index(raw, []byte("\n\n"))
		if idx < 0 {
			break
		}
		unit := string(raw[:idx])
		d.buf.Next(idx + 2)

		ev, ok := decodeUnit(unit)
		if !ok {
			d.skipped++
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Skipped counts malformed units dropped so far.
func (d *Decoder) Skipped() int { return d.skipped }

func decodeUnit(unit string) (Event, bool) {
	var payload strings.Builder
	for _, line := range strings.Split(unit, "\n") {
		if strings.HasPrefix(line, "data:") {
			payload.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if payload.Len() == 0 {
		return Event{}, false
	}
	var ev Event
	if err := json.Unmarshal([]byte(payload.String()), &ev); err != nil {
		return Event{}, false
	}
	if ev.Type == "" {
		return Event{}, false
	}
	return ev, true
}

// ToolActivity is one tool invocation as seen by a stream consumer: pending
// after tool_start, completed once the matching tool_result arrives.
type ToolActivity struct {
	Call          types.ToolCall
	Label         string
	Description   string
	ResultSummary string
	Done          bool
}

// ChatState folds a decoded event sequence into the state a client renders:
// the growing response text, transient status lines, tool activities, the
// artifact panel, and finally the completed result.
type ChatState struct {
	Response         strings.Builder
	StatusMessages   []string
	ToolActivities   []ToolActivity
	Artifacts        []types.Artifact
	ActiveArtifactID string
	Result           *types.ChatResult
	Err              string
	Streaming        bool
}

func NewChatState() *ChatState {
	return &ChatState{Streaming: true}
}

func (s *ChatState) Apply(ev Event) {
	switch ev.Type {
	case EventStatus:
		s.StatusMessages = append(s.StatusMessages, ev.Message)
	case EventToken:
		s.Response.WriteString(ev.Text)
	case EventToolStart:
		if ev.ToolCall == nil {
			return
		}
		s.ToolActivities = append(s.ToolActivities, ToolActivity{
			Call:        *ev.ToolCall,
			Label:       ev.Label,
			Description: ev.Description,
		})
	case EventToolResult:
		if ev.ToolCall == nil {
			return
		}
		for i := range s.ToolActivities {
			if s.ToolActivities[i].Call.ID == ev.ToolCall.ID {
				s.ToolActivities[i].Call = *ev.ToolCall
				s.ToolActivities[i].ResultSummary = ev.ResultSummary
				s.ToolActivities[i].Done = true
				return
			}
		}
		s.ToolActivities = append(s.ToolActivities, ToolActivity{
			Call:          *ev.ToolCall,
			Label:         ev.Label,
			Description:   ev.Description,
			ResultSummary: ev.ResultSummary,
			Done:          true,
		})
	case EventArtifactUpdate:
		for _, a := range ev.Artifacts {
			s.upsertArtifact(a)
		}
		if ev.ActiveArtifactID != "" {
			s.ActiveArtifactID = ev.ActiveArtifactID
		}
	case EventComplete:
		result := types.ChatResult{
			Response:            ev.Response,
			ToolCalls:           ev.ToolCalls,
			Artifact:            ev.Artifact,
			ArtifactList:        ev.ArtifactList,
			FollowUpSuggestions: ev.FollowUpSuggestions,
		}
		if ev.Usage != nil {
			result.Usage = *ev.Usage
		}
		s.Result = &result
		s.Artifacts = ev.ArtifactList
		if ev.Artifact != nil {
			s.ActiveArtifactID = ev.Artifact.ID
		}
		s.Streaming = false
	case EventError:
		s.Err = ev.Message
		s.Streaming = false
	}
}

func (s *ChatState) upsertArtifact(a types.Artifact) {
	for i := range s.Artifacts {
		if s.Artifacts[i].ID == a.ID {
			s.Artifacts[i] = a
			return
		}
	}
	s.Artifacts = append(s.Artifacts, a)
}
