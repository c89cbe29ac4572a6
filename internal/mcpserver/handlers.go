package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/engine"
	"github.com/mohdibrahimai/uire/internal/policy"
	"github.com/mohdibrahimai/uire/internal/prefs"
	"github.com/mohdibrahimai/uire/internal/session"
)

// handleDetectAmbiguity scores a single query and reports the factors found.
func (s *Server) handleDetectAmbiguity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	res, err := s.engine.Detect(ctx, s.userHash, query)
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(formatDetection(res)), nil
}

// handleClarifyQuery opens a clarification session for an ambiguous query.
func (s *Server) handleClarifyQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	sess, err := s.engine.Clarify(ctx, s.userHash, query)
	if err != nil {
		return toolError(err), nil
	}

	if sess.State == session.StateResolved {
		return mcp.NewToolResultText(
			"Query is clear enough, no clarification needed.\n\n" + formatResolution(sess.Intent, sess.Prompt),
		), nil
	}

	return mcp.NewToolResultText(formatQuestions(sess)), nil
}

// handleAnswerClarification submits answers for an open session.
func (s *Server) handleAnswerClarification(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	answers, err := parseAnswers(request.GetString("answers", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess, err := s.engine.Answer(ctx, s.userHash, sessionID, answers)
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(formatResolution(sess.Intent, sess.Prompt)), nil
}

// fieldParams are the resolve_intent parameters forwarded as explicit
// field answers.
var fieldParams = []string{
	policy.FieldCriteria,
	policy.FieldRegion,
	policy.FieldAudience,
	policy.FieldLength,
	policy.FieldLanguage,
}

// handleResolveIntent runs the full pipeline in one shot.
func (s *Server) handleResolveIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	fieldAnswers := map[string]string{}
	for _, f := range fieldParams {
		if v := request.GetString(f, ""); v != "" {
			fieldAnswers[f] = v
		}
	}

	res, err := s.engine.Resolve(ctx, s.userHash, query, fieldAnswers)
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(formatResolution(res.Intent, res.Prompt)), nil
}

// handleGetMemory lists the stored preferences for the local user.
func (s *Server) handleGetMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stored, err := s.store.All(ctx, s.userHash)
	if err != nil {
		return toolError(err), nil
	}

	if len(stored) == 0 {
		return mcp.NewToolResultText("No stored preferences."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d stored preference(s):\n", len(stored)))
	for _, f := range fieldParams {
		if v, ok := stored[f]; ok {
			sb.WriteString(fmt.Sprintf("  %s = %s\n", f, v))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// toolError translates pipeline errors into MCP tool errors with
// actionable wording.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, engine.ErrRateLimited):
		return mcp.NewToolResultError("rate limit exceeded, retry shortly")
	case errors.Is(err, engine.ErrNotFound):
		return mcp.NewToolResultError("session not found or already resolved; call clarify_query again")
	case errors.Is(err, prefs.ErrConsentRequired):
		return mcp.NewToolResultError("memory consent has not been granted")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

// parseAnswers decodes comma-separated questionID=optionID pairs.
func parseAnswers(raw string) (map[string]string, error) {
	answers := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed answer %q, want questionID=optionID", pair)
		}
		answers[strings.TrimSpace(id)] = strings.TrimSpace(value)
	}
	return answers, nil
}

func formatDetection(res detect.Result) string {
	var sb strings.Builder
	if res.Ambiguous {
		sb.WriteString(fmt.Sprintf("Query is ambiguous (confidence %.2f).\n", res.Confidence))
	} else {
		sb.WriteString("Query is clear.\n")
	}
	for _, f := range res.Factors {
		sb.WriteString(fmt.Sprintf("  - %s\n", f))
	}
	return sb.String()
}

func formatQuestions(sess session.Session) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session %s awaiting answers.\n", sess.ID))
	for i, q := range sess.Questions {
		sb.WriteString(fmt.Sprintf("\n--- Question %d (%s) ---\n", i+1, q.ID))
		sb.WriteString(q.Text + "\n")
		for _, o := range q.Options {
			marker := " "
			if o.ID == q.Default {
				marker = "*"
			}
			sb.WriteString(fmt.Sprintf("  %s %s: %s\n", marker, o.ID, o.Label))
		}
	}
	sb.WriteString("\nAnswer with answer_clarification; * marks the default used for unanswered questions.\n")
	return sb.String()
}

func formatResolution(intent policy.Intent, prompt string) string {
	var sb strings.Builder
	sb.WriteString("Resolved intent:\n")
	sb.WriteString(fmt.Sprintf("  task:     %s\n", intent.TaskType))
	sb.WriteString(fmt.Sprintf("  criteria: %s\n", intent.Criteria))
	sb.WriteString(fmt.Sprintf("  region:   %s\n", intent.Region))
	sb.WriteString(fmt.Sprintf("  audience: %s\n", intent.Audience))
	sb.WriteString(fmt.Sprintf("  length:   %s\n", intent.Length))
	sb.WriteString(fmt.Sprintf("  language: %s\n", intent.Language))
	sb.WriteString(fmt.Sprintf("  risk:     %s\n", intent.Risk))
	sb.WriteString("\nFinal prompt:\n")
	sb.WriteString(prompt + "\n")
	return sb.String()
}
