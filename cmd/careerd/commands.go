package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/careerd/internal/config"
	"github.com/kalambet/careerd/internal/jobdesc"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the career assistant a question",
	Long: `Ask the career assistant a question.

Examples:
  careerd ask "How complete is my profile?"
  careerd ask --user alice "What skills am I missing for a staff engineer role?"
  careerd ask --job-file ./posting.pdf "How well do I fit this position?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		jobFile, _ := cmd.Flags().GetString("job-file")
		query := strings.Join(args, " ")

		req := map[string]any{
			"user_id": user,
			"query":   query,
		}
		if jobFile != "" {
			text, err := jobdesc.ExtractText(jobFile)
			if err != nil {
				return fmt.Errorf("reading job description: %w", err)
			}
			req["job_description"] = text
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/ask", req)
		if err != nil {
			return err
		}

		var answer struct {
			Capability string `json:"capability"`
			Message    string `json:"message"`
			Success    bool   `json:"success"`
			Err        string `json:"error"`
		}
		if err := decodeJSON(resp, &answer); err != nil {
			return err
		}

		printStep("Capability: %s", answer.Capability)
		fmt.Println(answer.Message)
		if !answer.Success && answer.Err != "" {
			printWarning("%s", answer.Err)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("user", "default", "user the question is asked for")
	askCmd.Flags().String("job-file", "", "job description file (.txt or .pdf) to match against")
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a stored profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/profile/"+user)
		if err != nil {
			return err
		}

		var profile any
		if err := decodeJSON(resp, &profile); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	},
}

var profileCaptureCmd = &cobra.Command{
	Use:   "capture <url>",
	Short: "Capture a profile from a public URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/profile/"+user+"/capture", map[string]string{"url": args[0]})
		if err != nil {
			return err
		}

		var captured struct {
			FullName string `json:"full_name"`
			Headline string `json:"headline"`
		}
		if err := decodeJSON(resp, &captured); err != nil {
			return err
		}

		printSuccess("Captured profile for %s: %s", user, captured.FullName)
		if captured.Headline != "" {
			printStatus("Headline", "%s", captured.Headline)
		}
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open a stored profile JSON in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var profile any
		resp, err := client.get(cmd.Context(), "/profile/"+user)
		if err != nil {
			return err
		}
		if resp.StatusCode == 404 {
			resp.Body.Close()
			profile = map[string]any{}
		} else if err := decodeJSON(resp, &profile); err != nil {
			return err
		}

		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return err
		}

		tmpFile, err := os.CreateTemp("", "careerd-profile-*.json")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		tmpPath := tmpFile.Name()
		defer os.Remove(tmpPath)

		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			return err
		}
		tmpFile.Close()

		editorCmd := exec.Command(editor, tmpPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return fmt.Errorf("editor exited with error: %w", err)
		}

		edited, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		var fields map[string]any
		if err := json.Unmarshal(edited, &fields); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}

		putResp, err := client.put(cmd.Context(), "/profile/"+user, fields)
		if err != nil {
			return err
		}
		defer putResp.Body.Close()

		if putResp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", putResp.StatusCode)
		}

		printSuccess("Profile updated for %s", user)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{profileShowCmd, profileCaptureCmd, profileEditCmd} {
		c.Flags().String("user", "default", "user the profile belongs to")
	}
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCaptureCmd)
	profileCmd.AddCommand(profileEditCmd)
}

// --- goals ---

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage career goals",
}

var goalsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored career goals as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/goals/"+user)
		if err != nil {
			return err
		}

		var goals any
		if err := decodeJSON(resp, &goals); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(goals)
	},
}

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set career goals",
	Long: `Set career goals for a user.

Examples:
  careerd goals set --role "Staff Engineer" --industry fintech
  careerd goals set --user alice --skills "Kubernetes,system design"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		industry, _ := cmd.Flags().GetString("industry")
		skillsStr, _ := cmd.Flags().GetString("skills")

		if role == "" && industry == "" && skillsStr == "" {
			return fmt.Errorf("one of --role, --industry, or --skills is required")
		}

		body := map[string]any{}
		if role != "" {
			body["target_role"] = role
		}
		if industry != "" {
			body["target_industry"] = industry
		}
		if skillsStr != "" {
			skills := strings.Split(skillsStr, ",")
			for i := range skills {
				skills[i] = strings.TrimSpace(skills[i])
			}
			body["desired_skills"] = skills
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.put(cmd.Context(), "/goals/"+user, body)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		printSuccess("Goals updated for %s", user)
		return nil
	},
}

func init() {
	goalsShowCmd.Flags().String("user", "default", "user the goals belong to")
	goalsSetCmd.Flags().String("user", "default", "user the goals belong to")
	goalsSetCmd.Flags().String("role", "", "target role")
	goalsSetCmd.Flags().String("industry", "", "target industry")
	goalsSetCmd.Flags().String("skills", "", "comma-separated desired skills")
	goalsCmd.AddCommand(goalsShowCmd)
	goalsCmd.AddCommand(goalsSetCmd)
}

// --- interactions ---

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Inspect interaction history",
}

var interactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		capabilityID, _ := cmd.Flags().GetString("capability")
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := fmt.Sprintf("/interactions/%s?limit=%d", user, limit)
		if capabilityID != "" {
			path += "&capability=" + capabilityID
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var interactions []struct {
			ID         string `json:"id"`
			Capability string `json:"capability"`
			Query      string `json:"query"`
			Status     string `json:"status"`
			CreatedAt  string `json:"created_at"`
		}
		if err := decodeJSON(resp, &interactions); err != nil {
			return err
		}

		if len(interactions) == 0 {
			fmt.Println("No interactions found.")
			return nil
		}

		for _, ix := range interactions {
			query := ix.Query
			if len(query) > 80 {
				query = query[:80] + "..."
			}
			id := ix.ID
			if len(id) > 8 {
				id = id[:8]
			}
			status := ""
			if ix.Status != "completed" {
				status = " " + colorize(colorYellow, "["+ix.Status+"]")
			}
			fmt.Printf("%s  %s  %s  %s%s\n",
				colorize(colorCyan, id),
				ix.CreatedAt,
				colorize(colorBold, ix.Capability),
				query,
				status,
			)
		}
		return nil
	},
}

func init() {
	interactionsListCmd.Flags().String("user", "default", "user the interactions belong to")
	interactionsListCmd.Flags().String("capability", "", "filter by capability")
	interactionsListCmd.Flags().Int("limit", 20, "maximum number of interactions to list")
	interactionsCmd.AddCommand(interactionsListCmd)
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

		keys := config.ShowAll(cfg)
		for _, k := range keys {
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
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
