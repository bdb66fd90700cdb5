package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"solochat/internal/auth"
	"solochat/internal/chat"
	"solochat/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *storage.Store
	Turns *chat.Assembler
}

// NewMCPServer creates an MCP server exposing the chat surface as tools.
// The transport is stdio, which the process owner already controls, so no
// session or chat-key auth applies here.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"solochat",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("solochat — private chat server; conversations are persisted locally and answered by the configured hosted model."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_chats",
			mcp.WithDescription("List all chats, newest first."),
		),
		mcpListChats(deps),
	)

	s.AddTool(
		mcp.NewTool("create_chat",
			mcp.WithDescription("Create a new chat."),
			mcp.WithString("title", mcp.Description("Chat title (defaults to \"Untitled chat\")")),
			mcp.WithString("system_prompt", mcp.Description("Optional system prompt for the chat")),
		),
		mcpCreateChat(deps),
	)

	s.AddTool(
		mcp.NewTool("send_message",
			mcp.WithDescription("Send a message to a chat and return the model's reply."),
			mcp.WithString("chat_id", mcp.Description("Target chat id"), mcp.Required()),
			mcp.WithString("message", mcp.Description("Message text"), mcp.Required()),
		),
		mcpSendMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("get_messages",
			mcp.WithDescription("Return a chat's messages, oldest first."),
			mcp.WithString("chat_id", mcp.Description("Target chat id"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of messages (default 50)")),
		),
		mcpGetMessages(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"chats://recent",
			"Recent Chats",
			mcp.WithResourceDescription("The 10 most recently created chats"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentChats(deps),
	)

	return s
}

func mcpListChats(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chats, err := deps.Store.ListChats()
		if err != nil {
			return mcpError(fmt.Sprintf("listing chats failed: %v", err)), nil
		}

		if len(chats) == 0 {
			return mcpText("[]"), nil
		}

		summaries := make([]chatSummary, len(chats))
		for i, c := range chats {
			summaries[i] = chatSummary{ID: c.ID, Title: c.Title, FolderID: c.FolderID, CreatedAt: c.CreatedAt}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal chats: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCreateChat(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := storage.Chat{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(req.GetString("title", "")),
			APIKey:    auth.NewChatAPIKey(),
			CreatedAt: time.Now().Unix(),
		}
		if c.Title == "" {
			c.Title = defaultChatTitle
		}
		if prompt := strings.TrimSpace(req.GetString("system_prompt", "")); prompt != "" {
			c.SystemPrompt = &prompt
		}

		if err := deps.Store.CreateChat(c); err != nil {
			return mcpError(fmt.Sprintf("creating chat failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Created chat %s (%q)", c.ID, c.Title)), nil
	}
}

func mcpSendMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chatID, err := req.RequireString("chat_id")
		if err != nil {
			return mcpError("chat_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		reply, err := deps.Turns.Send(ctx, chatID, message)
		if err != nil {
			return mcpError(fmt.Sprintf("sending message failed: %v", err)), nil
		}
		return mcpText(reply), nil
	}
}

func mcpGetMessages(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chatID, err := req.RequireString("chat_id")
		if err != nil {
			return mcpError("chat_id is required"), nil
		}

		limit := req.GetInt("limit", 50)
		if limit <= 0 {
			limit = 50
		}
		if limit > maxMessageLimit {
			limit = maxMessageLimit
		}

		if _, err := deps.Store.GetChat(chatID); err != nil {
			return mcpError(fmt.Sprintf("chat not found: %s", chatID)), nil
		}

		msgs, err := deps.Store.ListMessages(chatID, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("listing messages failed: %v", err)), nil
		}
		if len(msgs) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(msgs)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal messages: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceRecentChats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		chats, err := deps.Store.ListChats()
		if err != nil {
			return nil, fmt.Errorf("failed to list chats: %w", err)
		}
		if len(chats) > 10 {
			chats = chats[:10]
		}

		summaries := make([]chatSummary, len(chats))
		for i, c := range chats {
			summaries[i] = chatSummary{ID: c.ID, Title: c.Title, FolderID: c.FolderID, CreatedAt: c.CreatedAt}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chats: %w", err)
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
