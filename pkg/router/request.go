package router

import (
	"fmt"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/decision"
)

// Request field names consumed from the inbound payload.
const (
	fieldText        = "text"
	fieldThinking    = "thinking"
	fieldWebSearch   = "web_search"
	fieldAgentID     = "agent_id"
	fieldSpec        = "spec"
	fieldOptOut      = "no_auto_route"
	fieldEndpoint    = "endpoint"
	fieldSnapshotKey = "conversation_snapshot"
)

// tokenBudgetFields are the candidate budget fields; the maximum of the
// three is the effective budget.
var tokenBudgetFields = []string{"max_tokens", "maxOutputTokens", "maxContextTokens"}

func requestText(req map[string]interface{}) string {
	if s, ok := req[fieldText].(string); ok {
		return s
	}
	return ""
}

func requestToggles(req map[string]interface{}) decision.Toggles {
	var tog decision.Toggles
	if v, ok := CoerceBool(req[fieldThinking]); ok {
		tog.Thinking = v
	}
	if v, ok := CoerceBool(req[fieldWebSearch]); ok {
		tog.WebSearch = v
	}
	tog.TokenBudget = tokenBudget(req)
	return tog
}

func tokenBudget(req map[string]interface{}) int {
	budget := 0
	for _, field := range tokenBudgetFields {
		if n, ok := CoerceNumber(req[field]); ok && int(n) > budget {
			budget = int(n)
		}
	}
	return budget
}

func agentID(req map[string]interface{}) string {
	if s, ok := req[fieldAgentID].(string); ok {
		return s
	}
	return ""
}

func explicitSpec(req map[string]interface{}) string {
	if s, ok := req[fieldSpec].(string); ok {
		return s
	}
	return ""
}

func optedOut(req map[string]interface{}) bool {
	v, ok := CoerceBool(req[fieldOptOut])
	return ok && v
}

// gaugeKey forms the per-conversation state key.
func gaugeKey(req map[string]interface{}, userID string) string {
	return fmt.Sprintf("%s:%s", userID, conversationID(req))
}

func conversationID(req map[string]interface{}) string {
	for _, key := range []string{"conversationId", "conversation_id"} {
		if s, ok := req[key].(string); ok && s != "" {
			return s
		}
	}
	if conv, ok := req["conversation"].(map[string]interface{}); ok {
		for _, key := range []string{"id", "conversationId"} {
			if s, ok := conv[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if s, ok := req[fieldEndpoint].(string); ok && s != "" {
		return s
	}
	return "default"
}

// gatherAttachments collects attachment objects from every location clients
// put them: top-level, conversation-level, and per-message.
func gatherAttachments(req map[string]interface{}) []interface{} {
	var out []interface{}

	appendFrom := func(m map[string]interface{}) {
		for _, key := range []string{"attachments", "files"} {
			if list, ok := m[key].([]interface{}); ok {
				out = append(out, list...)
			}
		}
		// A tools array rides along as a pseudo-attachment so tool markers
		// land in the descriptor set.
		if tools, ok := m["tools"].([]interface{}); ok {
			out = append(out, map[string]interface{}{"tools": tools})
		}
	}

	appendFrom(req)
	if conv, ok := req["conversation"].(map[string]interface{}); ok {
		appendFrom(conv)
	}
	if messages, ok := req["messages"].([]interface{}); ok {
		for _, msg := range messages {
			if m, ok := msg.(map[string]interface{}); ok {
				appendFrom(m)
			}
		}
	}
	return out
}
