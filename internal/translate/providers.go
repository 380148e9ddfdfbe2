package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultProviderTimeout = 10 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GoogleProvider calls the official Cloud Translation API. Batch-capable:
// all texts go out in a single request.
type GoogleProvider struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewGoogleProvider(apiKey, baseURL string, timeout time.Duration) *GoogleProvider {
	if baseURL == "" {
		baseURL = "https://translation.googleapis.com/language/translate/v2"
	}
	return &GoogleProvider{
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) IsConfigured() bool { return p.APIKey != "" }

func (p *GoogleProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]Output, error) {
	body, err := json.Marshal(map[string]any{
		"q":      texts,
		"target": targetLang,
		"format": "text",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal google request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"?key="+url.QueryEscape(p.APIKey), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google translate HTTP %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var parsed struct {
		Data struct {
			Translations []struct {
				TranslatedText         string `json:"translatedText"`
				DetectedSourceLanguage string `json:"detectedSourceLanguage"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode google response: %w", err)
	}

	outputs := make([]Output, len(parsed.Data.Translations))
	for i, t := range parsed.Data.Translations {
		lang := t.DetectedSourceLanguage
		if lang == "" {
			lang = "auto"
		}
		outputs[i] = Output{Translated: t.TranslatedText, SourceLang: lang}
	}
	return outputs, nil
}

// LibreProvider calls a LibreTranslate instance. Batch-capable via an array q.
type LibreProvider struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewLibreProvider(baseURL, apiKey string, timeout time.Duration) *LibreProvider {
	if baseURL == "" {
		baseURL = "https://libretranslate.com"
	}
	return &LibreProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  newHTTPClient(timeout),
	}
}

func (p *LibreProvider) Name() string { return "libretranslate" }

// IsConfigured requires either a self-hosted URL or an API key; the public
// instance without a key throttles too aggressively to be useful.
func (p *LibreProvider) IsConfigured() bool {
	return p.APIKey != "" || p.BaseURL != "https://libretranslate.com"
}

func (p *LibreProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]Output, error) {
	payload := map[string]any{
		"q":      texts,
		"source": "auto",
		"target": targetLang,
		"format": "text",
	}
	if p.APIKey != "" {
		payload["api_key"] = p.APIKey
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal libretranslate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("libretranslate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("libretranslate HTTP %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	// Single text comes back as a string, multiple as an array.
	var parsed struct {
		TranslatedText json.RawMessage `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode libretranslate response: %w", err)
	}

	var translations []string
	if err := json.Unmarshal(parsed.TranslatedText, &translations); err != nil {
		var single string
		if err := json.Unmarshal(parsed.TranslatedText, &single); err != nil {
			return nil, fmt.Errorf("unexpected libretranslate payload: %s", string(parsed.TranslatedText))
		}
		translations = []string{single}
	}

	outputs := make([]Output, len(translations))
	for i, t := range translations {
		outputs[i] = Output{Translated: t, SourceLang: "auto"}
	}
	return outputs, nil
}

// GTXProvider hits the keyless translate_a/single endpoint. It has no batch
// support and no SLA, so requests are serialized with a fixed delay between
// them. Fallback use only.
type GTXProvider struct {
	BaseURL string
	Delay   time.Duration
	client  *http.Client

	mu sync.Mutex // one in-flight request at a time
}

const defaultGTXDelay = 80 * time.Millisecond

func NewGTXProvider(baseURL string, timeout time.Duration) *GTXProvider {
	if baseURL == "" {
		baseURL = "https://translate.googleapis.com/translate_a/single"
	}
	return &GTXProvider{
		BaseURL: baseURL,
		Delay:   defaultGTXDelay,
		client:  newHTTPClient(timeout),
	}
}

func (p *GTXProvider) Name() string { return "gtx" }

// IsConfigured is always true: the endpoint needs no key.
func (p *GTXProvider) IsConfigured() bool { return true }

func (p *GTXProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]Output, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	outputs := make([]Output, 0, len(texts))
	for i, text := range texts {
		out, err := p.single(ctx, text, targetLang)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)

		if i < len(texts)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}
	return outputs, nil
}

func (p *GTXProvider) single(ctx context.Context, text, targetLang string) (Output, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Output{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("gtx request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("gtx HTTP %d", resp.StatusCode)
	}

	// Response shape: [[[segment, original, ...], ...], null, "detected_lang", ...]
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Output{}, fmt.Errorf("decode gtx response: %w", err)
	}
	if len(raw) == 0 {
		return Output{}, fmt.Errorf("empty gtx response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return Output{}, fmt.Errorf("unexpected gtx segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err == nil {
			sb.WriteString(part)
		}
	}

	sourceLang := "auto"
	if len(raw) > 2 {
		var detected string
		if err := json.Unmarshal(raw[2], &detected); err == nil && detected != "" {
			sourceLang = detected
		}
	}

	return Output{Translated: sb.String(), SourceLang: sourceLang}, nil
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
