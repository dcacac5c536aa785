package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pylearnhq/pylearn-backend/internal/pkg/httpx"
	"github.com/pylearnhq/pylearn-backend/internal/platform/logger"
	"github.com/pylearnhq/pylearn-backend/internal/utils"
)

// Client talks to an Ollama server's generate API.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) Client {
	baseURL := strings.TrimRight(utils.GetEnv("OLLAMA_BASE_URL", "http://localhost:11434", log), "/")
	model := utils.GetEnv("OLLAMA_MODEL", "llama3.2", log)

	timeoutSec := 120
	if v := utils.GetEnv("OLLAMA_TIMEOUT_SECONDS", "", log); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("client", "OllamaClient"),
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: 2,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := httpx.JitterSleep(time.Duration(attempt) * time.Second)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, retryable, err := c.generateOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.Debug("retrying generate", "attempt", attempt+1, "error", err)
	}
	return "", lastErr
}

func (c *client) generateOnce(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", httpx.IsRetryableError(err), fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, fmt.Errorf("read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", httpx.IsRetryableHTTPStatus(resp.StatusCode),
			fmt.Errorf("ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("decode ollama response: %w", err)
	}
	return strings.TrimSpace(parsed.Response), false, nil
}
