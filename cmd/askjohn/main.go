package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) postForm(path string, form url.Values, headers map[string]string) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest("POST", u, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
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

func main() {
	var (
		baseURL = envOr("ASKJOHN_URL", "http://localhost:8080")
		out     = envOr("ASKJOHN_OUT", "json")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "askjohn",
		Short: "CLI para el endpoint de introspección de AskJohn",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env ASKJOHN_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: &http.Client{Timeout: timeout}}

	// introspect: consulta un token. Credenciales del requester: --bearer
	// (JWT delegado) o --client-id/--client-secret (Basic).
	var (
		token        string
		hint         string
		bearer       string
		clientID     string
		clientSecret string
	)
	introspectCmd := &cobra.Command{
		Use:   "introspect",
		Short: "Introspecta un token contra POST /oauth2/introspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token es requerido")
			}
			if bearer == "" && clientID == "" {
				return fmt.Errorf("falta credencial: --bearer o --client-id/--client-secret")
			}

			form := url.Values{}
			form.Set("token", token)
			if hint != "" {
				form.Set("token_type_hint", hint)
			}

			headers := map[string]string{}
			if bearer != "" {
				headers["Authorization"] = "Bearer " + bearer
			} else {
				form.Set("client_id", clientID)
				form.Set("client_secret", clientSecret)
			}

			status, body, err := cl.postForm("/oauth2/introspect", form, headers)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("introspect fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	introspectCmd.Flags().StringVar(&token, "token", "", "Token a introspectar")
	introspectCmd.Flags().StringVar(&hint, "hint", "", "token_type_hint: access_token|refresh_token")
	introspectCmd.Flags().StringVar(&bearer, "bearer", "", "JWT delegado del requester")
	introspectCmd.Flags().StringVar(&clientID, "client-id", "", "client_id del requester (Basic)")
	introspectCmd.Flags().StringVar(&clientSecret, "client-secret", "", "client_secret del requester (Basic)")

	// health: GET /healthz
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Chequea /healthz",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := strings.TrimRight(cl.BaseURL, "/") + "/healthz"
			resp, err := cl.HTTP.Get(u)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode/100 != 2 {
				return fmt.Errorf("health fallo: status=%d body=%s", resp.StatusCode, string(b))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(resp.StatusCode, b)
			return nil
		},
	}

	root.AddCommand(introspectCmd)
	root.AddCommand(healthCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
