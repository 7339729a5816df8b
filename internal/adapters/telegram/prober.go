package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tg-datalake/internal/infra/metrics"
)

// DefaultHost — публичный Bot API.
const DefaultHost = "https://api.telegram.org"

// ProberConfig собирается один раз при старте и передаётся явно.
type ProberConfig struct {
	Host    string
	Token   string
	Timeout time.Duration
}

// BaseURL возвращает общий для всех методов адрес <host>/bot<token>.
func (c ProberConfig) BaseURL() string {
	host := strings.TrimRight(c.Host, "/")
	if host == "" {
		host = DefaultHost
	}
	return host + "/bot" + c.Token
}

// Prober выполняет GET-запросы getMe и getUpdates без какой-либо проверки ответа.
type Prober struct {
	cfg        ProberConfig
	httpClient *http.Client
}

// NewProber создаёт пробник.
func NewProber(cfg ProberConfig) *Prober {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Prober{cfg: cfg, httpClient: &http.Client{Timeout: timeout}}
}

// SetHTTPClient подменяет HTTP клиент.
func (p *Prober) SetHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		p.httpClient = httpClient
	}
}

// Response — сырой ответ метода вместе с HTTP статусом.
type Response struct {
	Method     string
	StatusCode int
	API        tgbotapi.APIResponse
}

// GetMe возвращает сведения о боте.
func (p *Prober) GetMe(ctx context.Context) (Response, error) {
	return p.get(ctx, "getMe")
}

// GetUpdates возвращает накопленные апдейты.
func (p *Prober) GetUpdates(ctx context.Context) (Response, error) {
	return p.get(ctx, "getUpdates")
}

// Bot декодирует результат getMe.
func (r Response) Bot() (tgbotapi.User, error) {
	var user tgbotapi.User
	err := json.Unmarshal(r.API.Result, &user)
	return user, err
}

// Updates декодирует результат getUpdates.
func (r Response) Updates() ([]tgbotapi.Update, error) {
	var updates []tgbotapi.Update
	err := json.Unmarshal(r.API.Result, &updates)
	return updates, err
}

func (p *Prober) get(ctx context.Context, method string) (resp Response, err error) {
	start := time.Now()
	defer func() { metrics.ObserveNetworkRequest("telegram", method, "bot_api", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL()+"/"+method, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%s: build request: %w", method, err)
	}
	httpResp, err := p.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", method, redact(err, p.cfg.Token))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%s: read body: %w", method, err)
	}
	resp = Response{Method: method, StatusCode: httpResp.StatusCode}
	if err := json.Unmarshal(body, &resp.API); err != nil {
		return resp, fmt.Errorf("%s: decode body: %w", method, err)
	}
	return resp, nil
}

// redact убирает токен из текста ошибки: net/http кладёт в неё полный URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "<token>"))
}
