package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

var baseURL = "http://localhost:8080"

const transcript = `Cells are the basic unit of life. Every cell is enclosed by a membrane,
and eukaryotic cells contain organelles such as the nucleus and mitochondria.
Mitochondria produce energy, while the nucleus stores genetic material.`

func main() {
	if u := os.Getenv("NOTIFY_URL"); u != "" {
		baseURL = u
	}
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test against", baseURL)

	step("1. Health check", func() bool {
		_, ok := send("GET", "/health", nil, http.StatusOK)
		return ok
	})

	var subjectID string
	step("2. Creating subject", func() bool {
		body, ok := send("POST", "/subjects", map[string]string{
			"name": fmt.Sprintf("smoke-%d", time.Now().Unix()),
		}, http.StatusCreated)
		subjectID = gjson.GetBytes(body, "id").String()
		return ok && subjectID != ""
	})

	step("3. Saving transcript", func() bool {
		_, ok := send("PUT", "/subjects/"+subjectID+"/transcript", map[string]string{"transcript": transcript}, http.StatusOK)
		return ok
	})

	step("4. Searching subjects", func() bool {
		body, ok := send("GET", "/subjects?query=mitochondria", nil, http.StatusOK)
		return ok && gjson.GetBytes(body, "results.#").Int() > 0
	})

	step("5. Generating graph", func() bool {
		body, ok := send("POST", "/subjects/"+subjectID+"/graph", nil, http.StatusOK)
		return ok && gjson.GetBytes(body, "graph.nodes.#").Int() > 0
	})

	step("6. Exporting subject", func() bool {
		body, ok := send("GET", "/subjects/"+subjectID+"/export", nil, http.StatusOK)
		return ok && gjson.GetBytes(body, "metadata.version").String() != ""
	})

	step("7. Deleting subject", func() bool {
		_, ok := send("DELETE", "/subjects/"+subjectID, nil, http.StatusNoContent)
		return ok
	})
}

func step(name string, fn func() bool) {
	fmt.Println(name + "...")
	if !fn() {
		fmt.Println("FAILED:", name)
		os.Exit(1)
	}
	fmt.Println("PASSED:", name)
}

func send(method, endpoint string, payload any, want int) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, respBody)
		return respBody, false
	}
	fmt.Printf("Response: %s\n", respBody)
	return respBody, true
}
