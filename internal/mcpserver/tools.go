package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// detectAmbiguityTool defines the detect_ambiguity MCP tool.
var detectAmbiguityTool = mcp.NewTool("detect_ambiguity",
	mcp.WithDescription("Score a query for missing decision-relevant information. Returns a confidence score and the list of ambiguity factors found."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The raw user query to score"),
	),
)

// clarifyQueryTool defines the clarify_query MCP tool.
var clarifyQueryTool = mcp.NewTool("clarify_query",
	mcp.WithDescription("Detect ambiguity and open a clarification session. Returns at most two single-choice questions, each with a default, plus a session ID for answer_clarification."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The raw user query to clarify"),
	),
)

// answerClarificationTool defines the answer_clarification MCP tool.
var answerClarificationTool = mcp.NewTool("answer_clarification",
	mcp.WithDescription("Submit answers for an open clarification session and get the resolved intent and final prompt. Unanswered questions fall back to their defaults."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID returned by clarify_query"),
	),
	mcp.WithString("answers",
		mcp.Description("Comma-separated questionID=optionID pairs, e.g. q1a2b3c4=expert"),
	),
)

// resolveIntentTool defines the resolve_intent MCP tool.
var resolveIntentTool = mcp.NewTool("resolve_intent",
	mcp.WithDescription("Resolve a query into a structured intent and an executable prompt in one shot. Optional parameters act as explicit answers and outrank stored preferences."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("The raw user query to resolve"),
	),
	mcp.WithString("criteria",
		mcp.Description("Ranking criteria for recommendations"),
		mcp.Enum("fees", "speed", "trust"),
	),
	mcp.WithString("region",
		mcp.Description("Region the answer should apply to"),
	),
	mcp.WithString("audience",
		mcp.Description("Who the output is for"),
		mcp.Enum("simple", "expert", "kids"),
	),
	mcp.WithString("length",
		mcp.Description("Preferred output length"),
		mcp.Enum("short", "medium", "long"),
	),
	mcp.WithString("language",
		mcp.Description("Target language code"),
	),
)

// getMemoryTool defines the get_memory MCP tool.
var getMemoryTool = mcp.NewTool("get_memory",
	mcp.WithDescription("List the stored preferences for the local user, if consent has been granted."),
)
