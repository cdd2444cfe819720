package orchestrator

import (
	"sort"
	"strings"

	"github.com/lumihub/lumi-gateway/internal/engine"
)

// Engine stage names surfaced to the user.
const (
	nodeRouter   = "router"
	nodeRAG      = "rag"
	nodeTool     = "tool"
	nodeResponse = "response"
)

// nodeStatus maps user-facing stages to progress labels.
var nodeStatus = map[string]string{
	nodeRouter:   "🔀 루미 생각 중...",
	nodeRAG:      "📚 정보 검색 중...",
	nodeTool:     "🔧 도구 실행 중...",
	nodeResponse: "💬 응답 작성 중...",
}

// muxState re-multiplexes the engine's dual-mode event stream into ordered
// StreamEvents. It is a plain state machine: step consumes one raw event and
// returns zero or more events to emit, so any pump (goroutine, loop, test)
// can drive it.
type muxState struct {
	activeNode string
	text       strings.Builder
	toolUsed   string
	emotion    string
}

func newMuxState() *muxState {
	return &muxState{emotion: EmotionNeutral}
}

func (m *muxState) step(ev engine.Event) []StreamEvent {
	switch ev.Mode {
	case engine.ModeUpdates:
		return m.stepUpdates(ev.Updates)
	case engine.ModeMessages:
		return m.stepChunk(ev.Chunk)
	}
	return nil
}

// stepUpdates handles coarse stage-transition events. A thinking event is
// emitted at most once per distinct transition to a known stage; stage
// payloads opportunistically refresh the running emotion and tool name.
func (m *muxState) stepUpdates(updates map[string]engine.NodeOutput) []StreamEvent {
	var events []StreamEvent
	for _, node := range sortedNodes(updates) {
		output := updates[node]

		if node != m.activeNode {
			if label, known := nodeStatus[node]; known {
				m.activeNode = node
				events = append(events, StreamEvent{Type: EventThinking, Content: label})
			}
		}

		if node == nodeTool && output != nil {
			if name, ok := output["tool_name"].(string); ok && name != "" {
				m.toolUsed = name
			}
		}
		if output != nil {
			raw, _ := output["emotion"].(string)
			m.emotion = NormalizeEmotion(raw)
		}
	}
	return events
}

// stepChunk handles fine-grained token events. Only genuine text chunks from
// the response stage contribute; everything else is discarded.
func (m *muxState) stepChunk(chunk *engine.MessageChunk) []StreamEvent {
	if chunk == nil || chunk.Node != nodeResponse {
		return nil
	}
	if chunk.Type != engine.ChunkTypeAIMessage || chunk.Content == "" {
		return nil
	}

	m.text.WriteString(chunk.Content)
	return []StreamEvent{{Type: EventToken, Content: chunk.Content}}
}

func (m *muxState) finalText() string {
	return m.text.String()
}

// sortedNodes fixes the per-event iteration order; engines batch at most a
// handful of stages per update.
func sortedNodes(updates map[string]engine.NodeOutput) []string {
	nodes := make([]string, 0, len(updates))
	for node := range updates {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}
