package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

// swapped out in tests
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "dpa-cli",
		Short: "DPA CLI tool",
		Long:  `A command line interface for interacting with the DPA poker tracker API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DPA API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}
	rootCmd.AddCommand(healthCmd)

	roomsCmd := &cobra.Command{
		Use:   "rooms",
		Short: "Room operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your rooms",
		Run: func(cmd *cobra.Command, args []string) {
			listRooms()
		},
	}

	seriesCmd := &cobra.Command{
		Use:   "series <room-id>",
		Short: "Print a room's chart series",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			roomSeries(args[0])
		},
	}

	roomsCmd.AddCommand(listCmd, seriesCmd)
	rootCmd.AddCommand(roomsCmd)

	hashCmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password with bcrypt",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			hashPassword(args[0])
		},
	}
	rootCmd.AddCommand(hashCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkHealth() {
	body, status := get("/health")
	if status != http.StatusOK {
		fmt.Printf("Health check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	fmt.Printf("Health check PASSED\n")
}

func listRooms() {
	body, status := get("/api/v1/rooms")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		Rooms []struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			Participants []any  `json:"participants"`
		} `json:"rooms"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-28s %-24s %s\n", "ID", "NAME", "PLAYERS")
	for _, room := range result.Rooms {
		fmt.Printf("%-28s %-24s %d\n", truncate(room.ID, 28), truncate(room.Name, 24), len(room.Participants))
	}
	fmt.Printf("Total: %d\n", result.Total)
}

func roomSeries(roomID string) {
	body, status := get("/api/v1/rooms/" + roomID + "/series")
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func hashPassword(password string) {
	hash, err := bcryptGenerate([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(hash))
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
