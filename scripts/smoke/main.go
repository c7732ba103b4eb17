// Command smoke exercises a running intake API end to end: it submits a
// sample application with a resume attachment, verifies the response
// contract, then deletes the row again using Basic auth. Exit code 1 on any
// mismatch, so it can run as a deploy check.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

type submitResponse struct {
	Success     bool `json:"success"`
	Application *struct {
		ID         int64   `json:"id"`
		FullName   string  `json:"full_name"`
		ResumePath *string `json:"resume_path"`
	} `json:"application"`
	Error string `json:"error"`
}

type simpleResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func main() {
	var (
		base     string
		password string
		timeout  time.Duration
		keep     bool
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&password, "admin-pass", os.Getenv("ADMIN_PASS"), "Admin password for the delete step")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.BoolVar(&keep, "keep", false, "Skip the delete step and keep the submitted row")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	base = strings.TrimRight(base, "/")

	id, err := submitSample(client, base)
	if err != nil {
		log.Fatalf("submit step failed: %v", err)
	}
	fmt.Printf("[OK] POST /api/applications -> id=%d\n", id)

	if keep {
		fmt.Println("Keeping submitted row, skipping delete.")
		return
	}
	if password == "" {
		log.Fatal("delete step needs -admin-pass or ADMIN_PASS")
	}
	if err := deleteSample(client, base, password, id); err != nil {
		log.Fatalf("delete step failed: %v", err)
	}
	fmt.Printf("[OK] DELETE /api/applications?id=%d\n", id)
	fmt.Println("Smoke check passed.")
}

func submitSample(client *http.Client, base string) (int64, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := map[string]string{
		"fullName":         "Smoke Check",
		"contactNumber":    "000-0000",
		"email":            fmt.Sprintf("smoke+%d@example.com", time.Now().UnixMilli()),
		"location":         "Nowhere",
		"experience":       "fresher",
		"domainPreference": "it",
		"suggestions":      "submitted by the smoke tool",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return 0, err
		}
	}
	part, err := w.CreateFormFile("resume", "smoke.pdf")
	if err != nil {
		return 0, err
	}
	if _, err := part.Write([]byte("%PDF-1.4\n% smoke check placeholder\n%%EOF\n")); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, base+"/api/applications", buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var parsed submitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("unparseable response (status %d): %s", resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success || parsed.Application == nil {
		return 0, fmt.Errorf("status %d, error %q", resp.StatusCode, parsed.Error)
	}
	if parsed.Application.ResumePath == nil {
		return 0, fmt.Errorf("resume_path missing on application %d", parsed.Application.ID)
	}
	return parsed.Application.ID, nil
}

func deleteSample(client *http.Client, base, password string, id int64) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/applications?id=%d", base, id), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth("admin", password)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var parsed simpleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("unparseable response (status %d): %s", resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		return fmt.Errorf("status %d, error %q", resp.StatusCode, parsed.Error)
	}
	return nil
}
