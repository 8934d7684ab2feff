package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/session"
)

// NewMCPServer creates an MCP server exposing the assistant to MCP clients.
func NewMCPServer(deps AppDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"careerd",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("careerd — personal career assistant with persistent per-user memory: profile analysis, job matching, content generation, and career counseling."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Ask the career assistant a question. The query is routed to the right capability and answered with the user's stored profile, goals, and history as context."),
			mcp.WithString("user_id", mcp.Description("User identifier owning the memory"), mcp.Required()),
			mcp.WithString("query", mcp.Description("The question or request"), mcp.Required()),
			mcp.WithString("job_description", mcp.Description("Optional job posting text for job-fit analysis")),
		),
		mcpAsk(deps),
	)

	s.AddTool(
		mcp.NewTool("capture_profile",
			mcp.WithDescription("Capture a public profile page by URL and store it as the user's profile."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
			mcp.WithString("url", mcp.Description("Profile page URL"), mcp.Required()),
		),
		mcpCaptureProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("set_goals",
			mcp.WithDescription("Set the user's career goals, replacing any previous goals."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
			mcp.WithString("target_role", mcp.Description("Role the user is working toward")),
			mcp.WithString("target_industry", mcp.Description("Industry the user is targeting")),
			mcp.WithArray("desired_skills", mcp.Description("Skills the user wants to develop")),
		),
		mcpSetGoals(deps),
	)

	s.AddTool(
		mcp.NewTool("recent_interactions",
			mcp.WithDescription("List a user's recent interactions with the assistant, most recent first."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
			mcp.WithString("capability", mcp.Description("Filter to one capability (profile_analysis, job_matching, content_generation, career_counseling)")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpRecentInteractions(deps),
	)

	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"careerd://profile/{user_id}",
			"User Profile",
			mcp.WithTemplateDescription("Stored profile for a user as JSON"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpAsk(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}
		jobDesc := req.GetString("job_description", "")

		ans := deps.Orchestrator.Ask(ctx, session.AskRequest{
			UserID:         userID,
			Query:          query,
			JobDescription: jobDesc,
		})
		if !ans.Success {
			return mcpError(ans.Message), nil
		}
		return mcpText(ans.Message), nil
	}
}

func mcpCaptureProfile(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		url, err := req.RequireString("url")
		if err != nil {
			return mcpError("url is required"), nil
		}

		p := deps.Orchestrator.CaptureProfile(ctx, userID, url)
		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSetGoals(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}

		g := profile.Goals{
			TargetRole:     req.GetString("target_role", ""),
			TargetIndustry: req.GetString("target_industry", ""),
			DesiredSkills:  req.GetStringSlice("desired_skills", nil),
		}
		if g.IsZero() {
			return mcpError("at least one goal field is required"), nil
		}

		deps.Orchestrator.SetGoals(userID, g)
		return mcpText(fmt.Sprintf("Goals stored for %s", userID)), nil
	}
}

func mcpRecentInteractions(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		capability := req.GetString("capability", "")
		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}

		rows := deps.Memory.RecentInteractions(userID, capability, limit)
		out := make([]interactionJSON, 0, len(rows))
		for _, i := range rows {
			out = append(out, interactionJSON{
				ID:         i.ID,
				Capability: i.Capability,
				Query:      i.Query,
				Response:   i.Response,
				Status:     i.Status,
				CreatedAt:  i.CreatedAt,
			})
		}

		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal interactions: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfile(deps AppDeps) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		userID := strings.TrimPrefix(req.Params.URI, "careerd://profile/")
		if userID == "" || userID == req.Params.URI {
			return nil, fmt.Errorf("resource URI must be careerd://profile/{user_id}")
		}

		p, ok := deps.Memory.GetProfile(userID)
		if !ok {
			return nil, fmt.Errorf("no profile stored for user %q", userID)
		}

		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
