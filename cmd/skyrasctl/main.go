// Command skyrasctl drives a running skyras server from the terminal. It is
// mainly used to run golden path scenarios and eyeball the proof markers.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/skyras/skyras/internal/agent"
	"github.com/skyras/skyras/internal/goldenpath"
)

var (
	app       = kingpin.New("skyrasctl", "CLI for the skyras PM agent server.")
	serverURL = app.Flag("server", "Base URL of the skyras server.").Default("http://localhost:3100").Envar("SKYRAS_SERVER_URL").String()
	apiKey    = app.Flag("api-key", "API key for the server.").Envar("SKYRAS_API_KEY").Required().String()

	chatCmd    = app.Command("chat", "Send one prompt to a PM agent.")
	chatPrompt = chatCmd.Arg("prompt", "Free text prompt.").Required().String()
	chatAgent  = chatCmd.Flag("agent", "Agent to address (marcus or atlas).").Default("marcus").String()
	chatUser   = chatCmd.Flag("user", "User ID for checklist state.").Default("default").String()

	goldenCmd      = app.Command("goldenpath", "Run a golden path scenario and print its proof markers.")
	goldenScenario = goldenCmd.Arg("scenario", "Scenario name, or 'all'.").Default("all").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := &http.Client{Timeout: 60 * time.Second}

	var err error
	switch cmd {
	case chatCmd.FullCommand():
		err = runChat(client)
	case goldenCmd.FullCommand():
		err = runGoldenPath(client)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func call(client *http.Client, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, *serverURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", *apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type chatResult struct {
	Output      string             `json:"output"`
	Delegations []agent.Delegation `json:"delegations"`
}

func runChat(client *http.Client) error {
	var result chatResult
	err := call(client, http.MethodPost, "/api/chat", map[string]string{
		"prompt": *chatPrompt,
		"agent":  *chatAgent,
		"userId": *chatUser,
	}, &result)
	if err != nil {
		return err
	}

	fmt.Println(result.Output)
	if len(result.Delegations) > 0 {
		fmt.Println()
		for _, d := range result.Delegations {
			mark := color.YellowString("•")
			switch d.Status {
			case agent.StatusCompleted:
				mark = color.GreenString("✔")
			case agent.StatusFailed:
				mark = color.RedString("✘")
			}
			fmt.Printf("%s %s: %s\n", mark, d.Agent, d.Task)
		}
	}
	return nil
}

type goldenPathResult struct {
	Scenario string                   `json:"scenario"`
	Proof    []goldenpath.ProofMarker `json:"proof"`
}

func runGoldenPath(client *http.Client) error {
	scenarios := []string{*goldenScenario}
	if *goldenScenario == "all" {
		scenarios = goldenpath.Names()
	}

	failed := 0
	for _, name := range scenarios {
		var result goldenPathResult
		if err := call(client, http.MethodPost, "/api/goldenpath/"+name, nil, &result); err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}

		color.New(color.Bold).Printf("scenario %s\n", name)
		ok := true
		for _, m := range result.Proof {
			bad := m.Code == "EXPECTED_CATEGORY_MISSING" || m.Code == "DELEGATION_FAILED" || m.Code == "RUN_FAILED"
			mark := color.GreenString("✔")
			if bad {
				mark = color.RedString("✘")
				ok = false
			}
			fmt.Printf("  %s [%s] %s %s\n", mark, m.Stage, m.Code, m.Message)
		}
		if !ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d scenario(s) did not produce the expected delegations", failed)
	}
	fmt.Println(color.GreenString("all scenarios passed"))
	return nil
}
