package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"study-assistant/internal/config"
)

// hfClient talks to a HuggingFace-inference-shaped endpoint:
// POST {inputs, parameters} with bearer auth, response either a list of
// objects carrying generated_text or an error object.
type hfClient struct {
	endpoint     string
	model        string
	token        string
	maxNewTokens int
	temperature  float64
	topK         int
	client       *http.Client
}

func newHFClient(cfg *config.GenerationConfig) *hfClient {
	return &hfClient{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		model:        cfg.Model,
		token:        cfg.Token,
		maxNewTokens: cfg.MaxNewTokens,
		temperature:  cfg.Temperature,
		topK:         cfg.TopK,
		client:       &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *hfClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := struct {
		Inputs     string `json:"inputs"`
		Parameters struct {
			MaxNewTokens int     `json:"max_new_tokens"`
			Temperature  float64 `json:"temperature"`
			TopK         int     `json:"top_k"`
		} `json:"parameters"`
	}{Inputs: prompt}
	payload.Parameters.MaxNewTokens = c.maxNewTokens
	payload.Parameters.Temperature = c.temperature
	payload.Parameters.TopK = c.topK

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.endpoint + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed: %d, %s", resp.StatusCode, string(body))
	}

	// the inference API returns text in more than one shape
	var errShape struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errShape) == nil && errShape.Error != "" {
		return "", errors.New(errShape.Error)
	}
	var listShape []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &listShape); err == nil && len(listShape) > 0 && listShape[0].GeneratedText != "" {
		return listShape[0].GeneratedText, nil
	}
	return string(body), nil
}
