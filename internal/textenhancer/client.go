package textenhancer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/hr-records/pkg/metrics"
)

const (
	DefaultBaseURL = "https://router.huggingface.co/v1"
	DefaultModel   = "meta-llama/Meta-Llama-3-8B"
	DefaultTimeout = 30 * time.Second

	polishMaxTokens    = 150
	polishTemperature  = 0.7
	optionsMaxTokens   = 400
	optionsTemperature = 0.8
)

var (
	errQueueFull    = errors.New("text enhancer queue full")
	errShuttingDown = errors.New("text enhancer shutting down")
	errEmptyAnswer  = errors.New("text enhancer returned no content")
)

type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	Timeout      time.Duration
	MaxWorkers   int
	JobQueueSize int
}

type completionJob struct {
	ctx         context.Context
	prompt      string
	maxTokens   int
	temperature float64
	result      chan completionResult
}

type completionResult struct {
	text string
	err  error
}

type Worker struct {
	ID         int
	WorkerPool chan chan completionJob
	JobChannel chan completionJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan completionJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan completionJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(completionJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("enhancer worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("enhancer worker processing job", "worker_id", w.ID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("enhancer worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client rewrites feedback through an OpenAI-compatible chat completions
// endpoint. Remote calls run on a bounded worker pool; every failure path
// degrades to the local rewrite, so callers always get an answer.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *metrics.Collector
	logger     *slog.Logger

	jobQueue   chan completionJob
	workerPool chan chan completionJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewClient(config Config, collector *metrics.Collector, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 32
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    collector,
		logger:     logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan completionJob, jobQueueSize),
		workerPool: make(chan chan completionJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {
		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processJob)
		}

		c.wg.Add(1)
		go c.dispatch()

		c.logger.Info("text enhancer worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	defer c.wg.Done()

	for {
		select {
		case job := <-c.jobQueue:
			select {
			case jobChannel := <-c.workerPool:
				select {
				case jobChannel <- job:
				case <-c.ctx.Done():
					job.result <- completionResult{err: errShuttingDown}
					return
				}
			case <-c.ctx.Done():
				job.result <- completionResult{err: errShuttingDown}
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("text enhancer dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down text enhancer")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("text enhancer shutdown complete")
}

// Polish returns one professional rewrite of text. Blank input comes back
// unchanged.
func (c *Client) Polish(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if c.apiKey == "" {
		c.logger.Info("text enhancer api key not configured, using local rewrite")
		return c.fallback(text)
	}

	answer, err := c.submit(ctx, polishPrompt(text), polishMaxTokens, polishTemperature)
	if err != nil {
		c.logger.Warn("text enhancer call failed, using local rewrite", "error", err)
		return c.fallback(text)
	}

	polished := cleanGenerated(answer)
	if polished == "" || polished == text {
		c.logger.Warn("text enhancer returned nothing new, using local rewrite")
		return c.fallback(text)
	}
	return polished
}

// Options returns exactly three rewrites of text.
func (c *Client) Options(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{text, text, text}
	}
	if c.apiKey == "" {
		c.logger.Info("text enhancer api key not configured, using local options")
		return c.fallbackOptions(text)
	}

	answer, err := c.submit(ctx, optionsPrompt(text), optionsMaxTokens, optionsTemperature)
	if err != nil {
		c.logger.Warn("text enhancer options call failed, using local options", "error", err)
		return c.fallbackOptions(text)
	}

	options, ok := parseOptions(answer)
	if !ok {
		c.logger.Warn("text enhancer returned unusable options, using local options")
		return c.fallbackOptions(text)
	}
	return options
}

func (c *Client) fallback(text string) string {
	c.metrics.EnhancerFallback()
	return LocalRewrite(text)
}

func (c *Client) fallbackOptions(text string) []string {
	c.metrics.EnhancerFallback()
	return LocalOptions(text)
}

// submit queues a completion and waits for a worker to answer it. It never
// blocks on a full queue, and the whole wait, queue time included, is bounded
// by the client timeout.
func (c *Client) submit(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	job := completionJob{
		ctx:         ctx,
		prompt:      prompt,
		maxTokens:   maxTokens,
		temperature: temperature,
		result:      make(chan completionResult, 1),
	}

	select {
	case c.jobQueue <- job:
	default:
		c.logger.Warn("text enhancer queue full", "queue_capacity", cap(c.jobQueue))
		return "", errQueueFull
	}

	select {
	case res := <-job.result:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.ctx.Done():
		return "", errShuttingDown
	}
}

func (c *Client) processJob(job completionJob) {
	// The caller already gave up on this job while it sat in the queue.
	if err := job.ctx.Err(); err != nil {
		c.logger.Debug("skipping expired enhancer job", "error", err)
		job.result <- completionResult{err: err}
		return
	}
	text, err := c.complete(job.ctx, job.prompt, job.maxTokens, job.temperature)
	job.result <- completionResult{text: text, err: err}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	c.metrics.EnhancerCall()

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusServiceUnavailable {
			c.logger.Info("text enhancer model is loading", "model", c.model)
		}
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResponse.Choices) == 0 || strings.TrimSpace(apiResponse.Choices[0].Message.Content) == "" {
		return "", errEmptyAnswer
	}

	c.logger.Debug("text enhancer completion received",
		"model", c.model,
		"duration_ms", time.Since(started).Milliseconds())

	return apiResponse.Choices[0].Message.Content, nil
}
