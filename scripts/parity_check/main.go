// Command parity_check replays the legacy-compatible miniCanvas routes against
// this server and a legacy deployment and reports where responses diverge.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type step struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
}

type scenario struct {
	Steps []step `json:"steps"`
}

type result struct {
	Step           step
	GoStatus       int
	LegacyStatus   int
	StatusMatch    bool
	BodyMatch      bool
	Err            error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

// defaultSteps exercises every route the legacy service exposes. Order matters:
// both servers are expected to start empty so issued ids line up.
var defaultSteps = []step{
	{Method: http.MethodGet, Path: "/", Critical: true},
	{Method: http.MethodPost, Path: "/courses/CS101?semester=Fall%202024", Body: json.RawMessage(`{"teacher_id_list":[1,2]}`), Critical: true},
	{Method: http.MethodPost, Path: "/courses/CS102?semester=Spring%202025", Body: json.RawMessage(`{"teacher_id_list":[1]}`), Critical: true},
	{Method: http.MethodPut, Path: "/courses/1/students", Body: json.RawMessage(`{"student_id_list":[3,4]}`), Critical: true},
	{Method: http.MethodPut, Path: "/courses/99/students", Body: json.RawMessage(`{"student_id_list":[3]}`)},
}

func main() {
	var (
		goBase     string
		legacyBase string
		stepsPath  string
		timeout    time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "Legacy API base URL")
	flag.StringVar(&stepsPath, "steps", "", "Optional JSON scenario file; defaults to the built-in scenario")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	steps := defaultSteps
	if stepsPath != "" {
		loaded, err := loadSteps(stepsPath)
		if err != nil {
			log.Fatalf("failed to load steps: %v", err)
		}
		steps = loaded
	}

	client := &http.Client{Timeout: timeout}
	results := make([]result, 0, len(steps))
	for _, s := range steps {
		results = append(results, compareStep(client, goBase, legacyBase, s))
	}

	printReport(os.Stdout, results)
	breaking, optional := tally(results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadSteps(path string) ([]step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("no steps defined in %s", path)
	}
	return sc.Steps, nil
}

func tally(results []result) (breaking, optional int) {
	for _, r := range results {
		diverged := r.Err != nil || !r.StatusMatch || !r.BodyMatch
		switch {
		case !diverged:
		case r.Step.Critical:
			breaking++
		default:
			optional++
		}
	}
	return breaking, optional
}

func compareStep(client *http.Client, goBase, legacyBase string, s step) result {
	res := result{Step: s}

	goStatus, goBody, goDur, err := send(client, goBase, s)
	if err != nil {
		res.Err = fmt.Errorf("go request failed: %w", err)
		return res
	}
	legacyStatus, legacyBody, legacyDur, err := send(client, legacyBase, s)
	if err != nil {
		res.Err = fmt.Errorf("legacy request failed: %w", err)
		return res
	}

	res.GoStatus, res.LegacyStatus = goStatus, legacyStatus
	res.DurationGo, res.DurationLegacy = goDur, legacyDur
	res.StatusMatch = goStatus == legacyStatus
	// Error payloads differ in shape between the two services; only success bodies are compared.
	res.BodyMatch = goStatus >= http.StatusBadRequest || bodiesEqual(goBody, legacyBody)
	return res
}

func send(client *http.Client, base string, s step) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(s.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := s.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(s.Body) > 0 {
		body = bytes.NewReader(s.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, payload, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	return reflect.DeepEqual(aj, bj)
}

func printReport(w io.Writer, results []result) {
	fmt.Fprintln(w, "Parity Report")
	fmt.Fprintln(w, "=============")
	for _, r := range results {
		status := "OK"
		if r.Err != nil {
			status = "ERROR"
		} else if !r.StatusMatch || !r.BodyMatch {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, r.Step.Method, r.Step.Path)
		if r.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n", r.Err)
			continue
		}
		fmt.Fprintf(w, "  Go: %d (%s) | Legacy: %d (%s) | Body match: %t\n",
			r.GoStatus, r.DurationGo, r.LegacyStatus, r.DurationLegacy, r.BodyMatch)
	}
}
