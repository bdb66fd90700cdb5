package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"solochat/internal/config"
)

// --- chats ---

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Manage chats",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/chats")
		if err != nil {
			return err
		}

		var chats []struct {
			ID        string  `json:"id"`
			Title     string  `json:"title"`
			FolderID  *string `json:"folder_id"`
			CreatedAt int64   `json:"created_at"`
		}
		if err := decodeJSON(resp, &chats); err != nil {
			return err
		}

		if len(chats) == 0 {
			fmt.Println("No chats yet.")
			return nil
		}

		for _, c := range chats {
			created := time.Unix(c.CreatedAt, 0).Format("2006-01-02 15:04")
			fmt.Printf("%s  %s  %s\n", colorize(colorCyan, c.ID[:8]), created, c.Title)
		}
		return nil
	},
}

var chatsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		systemPrompt, _ := cmd.Flags().GetString("system-prompt")
		folderID, _ := cmd.Flags().GetString("folder")

		body := map[string]any{
			"title":        strings.Join(args, " "),
			"systemPrompt": systemPrompt,
		}
		if folderID != "" {
			body["folderId"] = folderID
		}

		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/chats", body)
		if err != nil {
			return err
		}

		var c struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			APIKey string `json:"api_key"`
		}
		if err := decodeJSON(resp, &c); err != nil {
			return err
		}

		printSuccess("Created chat %s (%q)", c.ID, c.Title)
		printStatus("API key", "%s", c.APIKey)
		return nil
	},
}

var chatsShowCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Show a chat's messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/chats/"+args[0]+"/messages")
		if err != nil {
			return err
		}

		var msgs []struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			CreatedAt int64  `json:"created_at"`
		}
		if err := decodeJSON(resp, &msgs); err != nil {
			return err
		}

		if len(msgs) == 0 {
			fmt.Println("No messages yet.")
			return nil
		}

		for _, m := range msgs {
			label := colorize(colorBold, "["+m.Role+"]")
			fmt.Printf("%s %s\n", label, m.Content)
		}
		return nil
	},
}

var chatsDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat and all its messages and attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete the chat and everything in it. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/chats/"+args[0]+"/delete", nil)
		if err != nil {
			return err
		}

		var result map[string]bool
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted chat %s", args[0])
		return nil
	},
}

func init() {
	chatsNewCmd.Flags().String("system-prompt", "", "system prompt for the chat")
	chatsNewCmd.Flags().String("folder", "", "folder id to place the chat in")
	chatsDeleteCmd.Flags().Bool("confirm", false, "confirm deletion")
	chatsCmd.AddCommand(chatsListCmd)
	chatsCmd.AddCommand(chatsNewCmd)
	chatsCmd.AddCommand(chatsShowCmd)
	chatsCmd.AddCommand(chatsDeleteCmd)
}

// --- send ---

var sendCmd = &cobra.Command{
	Use:   "send <chat-id> <message...>",
	Short: "Send a message and print the model's reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chatID := args[0]
		message := strings.Join(args[1:], " ")

		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/chats/"+chatID+"/messages", map[string]string{
			"message": message,
		})
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		fmt.Println(result["reply"])
		return nil
	},
}

// --- folders ---

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/api/folders")
		if err != nil {
			return err
		}

		var folders []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			ParentID *string `json:"parent_id"`
		}
		if err := decodeJSON(resp, &folders); err != nil {
			return err
		}

		if len(folders) == 0 {
			fmt.Println("No folders yet.")
			return nil
		}

		for _, f := range folders {
			parent := "root"
			if f.ParentID != nil {
				parent = (*f.ParentID)[:8]
			}
			fmt.Printf("%s  %-20s  parent: %s\n", colorize(colorCyan, f.ID[:8]), f.Name, parent)
		}
		return nil
	},
}

var foldersNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parentID, _ := cmd.Flags().GetString("parent")

		body := map[string]any{"name": args[0]}
		if parentID != "" {
			body["parentId"] = parentID
		}

		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/folders", body)
		if err != nil {
			return err
		}

		var f struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := decodeJSON(resp, &f); err != nil {
			return err
		}

		printSuccess("Created folder %s (%q)", f.ID, f.Name)
		return nil
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder (its contents move to the root)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/api/folders/"+args[0])
		if err != nil {
			return err
		}

		var result map[string]bool
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted folder %s", args[0])
		return nil
	},
}

func init() {
	foldersNewCmd.Flags().String("parent", "", "parent folder id")
	foldersCmd.AddCommand(foldersListCmd)
	foldersCmd.AddCommand(foldersNewCmd)
	foldersCmd.AddCommand(foldersDeleteCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
