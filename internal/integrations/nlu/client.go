package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего классификатора намерений
// Сам классификатор - черный ящик: клиент только транспортирует текст
// и разбирает структурированный ответ
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента классификатора
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Classify классифицирует текст сообщения клиента
func (c *Client) Classify(ctx context.Context, text, language string) (*Intent, error) {
	url := fmt.Sprintf("%s/internal/v1/classify", c.baseURL)

	body, err := json.Marshal(classifyRequest{Text: text, Language: language})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &intent, nil
}

// ClassifyWithGracefulDegradation классифицирует текст с graceful degradation
// При недоступности классификатора возвращает ErrServiceDegraded: диалог
// продолжается без подсказок, ход клиента никогда не падает из-за NLU
func (c *Client) ClassifyWithGracefulDegradation(ctx context.Context, text, language string) (*Intent, error) {
	intent, err := c.Classify(ctx, text, language)
	if err != nil {
		c.log.Error("NLU unavailable, applying graceful degradation: %v", err)
		return nil, fmt.Errorf("%w: error=%v", ErrServiceDegraded, err)
	}

	return intent, nil
}
