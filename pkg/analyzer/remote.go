package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// remote calls a joint segmenter/tagger/NER service over HTTP JSON.
//
// Request:  POST <endpoint>/analyze  {"text": "..."}
// Response: {"tokens": [...], "pos": [...], "ner": [[start, end, label], ...]}
//
// NER spans are inclusive token index ranges; every token inside a span
// carries the span's label.
type remote struct {
	endpoint string
	client   *http.Client
	probeTO  time.Duration
}

func newRemote(cfg Config) *remote {
	probeTO := cfg.ProbeTimeout
	if probeTO <= 0 {
		probeTO = 3 * time.Second
	}
	reqTO := cfg.RequestTimeout
	if reqTO <= 0 {
		reqTO = 30 * time.Second
	}
	return &remote{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: reqTO},
		probeTO:  probeTO,
	}
}

func (r *remote) Name() string { return "remote" }

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Tokens []string  `json:"tokens"`
	Pos    []string  `json:"pos"`
	Ner    []nerSpan `json:"ner"`
}

// nerSpan decodes the wire form [start, end, "label"].
type nerSpan struct {
	Start int
	End   int
	Label string
}

func (s *nerSpan) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("ner span has %d elements, want 3", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Start); err != nil {
		return fmt.Errorf("ner span start: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.End); err != nil {
		return fmt.Errorf("ner span end: %w", err)
	}
	if err := json.Unmarshal(raw[2], &s.Label); err != nil {
		return fmt.Errorf("ner span label: %w", err)
	}
	return nil
}

// probe checks availability once with a short deadline. A failed probe
// removes the remote backend from consideration for the process lifetime.
func (r *remote) probe() error {
	probeClient := &http.Client{Timeout: r.probeTO}
	body, _ := json.Marshal(analyzeRequest{Text: "你好"})
	resp, err := probeClient.Post(r.endpoint+"/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("probe analyzer endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe analyzer endpoint: status %d", resp.StatusCode)
	}
	return nil
}

func (r *remote) Analyze(sentence string) ([]Token, error) {
	body, err := json.Marshal(analyzeRequest{Text: sentence})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}
	resp, err := r.client.Post(r.endpoint+"/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("call analyzer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}

	entities := make(map[int]string)
	for _, span := range decoded.Ner {
		for i := span.Start; i <= span.End; i++ {
			entities[i] = span.Label
		}
	}

	out := make([]Token, 0, len(decoded.Tokens))
	for i, tok := range decoded.Tokens {
		t := Token{Text: tok, Entity: entities[i]}
		if i < len(decoded.Pos) {
			t.Pos = decoded.Pos[i]
		}
		out = append(out, t)
	}
	return out, nil
}
