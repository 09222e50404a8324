package artwork

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultModel = "gpt-4o-mini"

// analysisPrompt pins the model to the Analysis JSON schema. The schema is
// strict on purpose: post-processing validates rather than repairs.
const analysisPrompt = `You are analyzing artwork for a custom baseball cap order.
Respond with a single JSON object and nothing else, using exactly this shape:
{"capColors":["..."],"billShape":"Flat|Slight Curved|Curved","assets":[{"position":"Front|Back|Left Side|Right Side|Upper Bill|Under Bill","description":"...","application":"3D Embroidery|Flat Embroidery|Leather Patch|Rubber Patch|Woven Patch|Screen Print","colors":["..."]}],"accessories":[{"category":"Label|Tag","label":"..."}],"confidence":0.0}
List every distinct logo element per cap position and every label or tag element.`

// Extractor sends artwork to a model and returns its raw Analysis.
// Implemented over HTTP below; tests substitute their own.
type Extractor interface {
	ExtractFromImage(ctx context.Context, imagePath string) (*Analysis, error)
	ExtractFromText(ctx context.Context, text string) (*Analysis, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a model client. Empty model falls back to the
// default; baseURL must point at a /chat/completions-compatible API.
func NewClient(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractFromImage analyzes an image file with the vision model.
func (c *Client) ExtractFromImage(ctx context.Context, imagePath string) (*Analysis, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read artwork image: %w", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	return c.complete(ctx, []contentPart{
		{Type: "text", Text: analysisPrompt},
		{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
	})
}

// ExtractFromText analyzes text already extracted from a PDF.
func (c *Client) ExtractFromText(ctx context.Context, text string) (*Analysis, error) {
	return c.complete(ctx, []contentPart{
		{Type: "text", Text: analysisPrompt + "\n\nArtwork document text:\n" + text},
	})
}

func (c *Client) complete(ctx context.Context, parts []contentPart) (*Analysis, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: parts}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("model returned status %d: %s", resp.StatusCode, string(raw))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}
	return parseAnalysisJSON(cr.Choices[0].Message.Content)
}

// parseAnalysisJSON tolerates markdown fences and prose around the JSON
// object but nothing else.
func parseAnalysisJSON(content string) (*Analysis, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("model response carries no JSON object")
	}
	var a Analysis
	if err := json.Unmarshal([]byte(content[start:end+1]), &a); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &a, nil
}
