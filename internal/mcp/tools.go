package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeBaseTool defines the search_knowledge_base MCP tool.
var searchKnowledgeBaseTool = mcp.NewTool("search_knowledge_base",
	mcp.WithDescription("Search the cancer information knowledge base. Returns matching articles with summaries and links."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text search query"),
	),
	mcp.WithString("category",
		mcp.Description("Filter results to one article category"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// listResearchPapersTool defines the list_research_papers MCP tool.
var listResearchPapersTool = mcp.NewTool("list_research_papers",
	mcp.WithDescription("List research papers relevant to the given topics, featured papers first."),
	mcp.WithString("topics",
		mcp.Description("Comma-separated topic tags, e.g. \"immunotherapy, breast cancer\""),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of papers to return (default 5)"),
	),
)

// getSupporterProfileTool defines the get_supporter_profile MCP tool.
var getSupporterProfileTool = mcp.NewTool("get_supporter_profile",
	mcp.WithDescription("Get a supporter's profile with their donation summary."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("Supporter user ID"),
	),
)

// getSupporterContextTool defines the get_supporter_context MCP tool.
var getSupporterContextTool = mcp.NewTool("get_supporter_context",
	mcp.WithDescription("Get the latest engagement context for a supporter: preferences, engagement history, and any in-progress flow."),
	mcp.WithString("user_id",
		mcp.Required(),
		mcp.Description("Supporter user ID"),
	),
)
