// clinicbookctl is the operator CLI for the clinicbook admin API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Admin-API-Key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

type userRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

func main() {
	var (
		baseURL = envOr("CLINICBOOK_ADMIN_URL", "http://localhost:8080")
		apiKey  = envOr("CLINICBOOK_ADMIN_KEY", "")
		out     = envOr("CLINICBOOK_OUT", "text")
	)

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}

	root := &cobra.Command{
		Use:   "clinicbookctl",
		Short: "Operator CLI for the clinicbook admin API",
		// flags resolve after parsing, so bind the client here
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("missing API key (flag --admin-api-key or env CLINICBOOK_ADMIN_KEY)")
			}
			cl.BaseURL = baseURL
			cl.APIKey = apiKey
			cl.OutFormat = out
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "admin-api-url", baseURL, "admin API base URL (env CLINICBOOK_ADMIN_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "admin API key (env CLINICBOOK_ADMIN_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "output format: json|text")

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}

	var listPage int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", fmt.Sprintf("/v1/admin/users?page=%d", listPage), nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list failed: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "json" {
				cl.print(status, body)
				return nil
			}
			var resp struct {
				Total int       `json:"total"`
				Page  int       `json:"page"`
				Users []userRow `json:"users"`
			}
			if err := json.Unmarshal(body, &resp); err != nil {
				return err
			}
			fmt.Printf("page %d, %d total\n", resp.Page, resp.Total)
			for _, u := range resp.Users {
				verified := " "
				if u.EmailVerified {
					verified = "*"
				}
				fmt.Printf("%s  %-8s %s %s <%s>\n", u.ID, u.Role, verified, u.Name, u.Email)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")

	var setRole string
	setRoleCmd := &cobra.Command{
		Use:   "set-role <user-id>",
		Short: "Set a user's role (patient|admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if setRole == "" {
				return fmt.Errorf("--role is required (patient|admin)")
			}
			return postRole(cl, args[0], setRole)
		},
	}
	setRoleCmd.Flags().StringVar(&setRole, "role", "", "role to assign")

	grantAdminCmd := &cobra.Command{
		Use:   "grant-admin <user-id>",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postRole(cl, args[0], "admin")
		},
	}

	usersCmd.AddCommand(listCmd, setRoleCmd, grantAdminCmd)
	root.AddCommand(usersCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func postRole(cl *client, userID, role string) error {
	payload, _ := json.Marshal(map[string]string{"role": role})
	status, body, err := cl.do("POST", "/v1/admin/users/"+userID+"/role", payload)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return fmt.Errorf("role update failed: status=%d body=%s", status, string(body))
	}
	if cl.OutFormat == "text" {
		fmt.Printf("role of %s set to %s\n", userID, role)
		return nil
	}
	cl.print(status, body)
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
