package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/docextract/constants"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/llm"
)

type Config struct {
	APIKey    string        // checked at call time; empty -> failed result
	APIKeyEnv string        // env var name quoted in the missing-key message
	BaseURL   string        // default https://api.mistral.ai/v1
	Model     string        // default mistral-ocr-latest
	Timeout   time.Duration // http client timeout
}

// MistralOCR sends whole documents to Mistral's OCR endpoint and returns the
// page markdown. It does not look at the field schema.
type MistralOCR struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewMistralOCR(cfg Config, logger *slog.Logger) *MistralOCR {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "MISTRAL_API_KEY"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral-ocr-latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &MistralOCR{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// ConfigFrom builds the OCR adapter config from the application config.
func ConfigFrom(cfg *common.Config) Config {
	return Config{
		APIKey:    cfg.Mistral.APIKey,
		APIKeyEnv: "MISTRAL_API_KEY",
		BaseURL:   cfg.Mistral.BaseURL,
		Model:     cfg.Mistral.OCRModel,
		Timeout:   cfg.Extraction.HTTPTimeout,
	}
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           documentURL `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type documentURL struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
	Model string    `json:"model"`
}

type ocrPage struct {
	Index    int        `json:"index"`
	Markdown string     `json:"markdown"`
	Images   []ocrImage `json:"images"`
}

type ocrImage struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

// PageImage is an embedded image returned when Strategy.IncludeImages is set.
type PageImage struct {
	ID          string `json:"id"`
	Page        int    `json:"page"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// Extract implements extract.Extractor. Success fields are {"text": markdown}
// (plus "images" when requested), tagged ocr_api.
func (m *MistralOCR) Extract(ctx context.Context, req extract.Request) extract.Result {
	log := common.LoggerFrom(ctx, m.logger).With("provider", "mistral", "model", m.cfg.Model)
	start := time.Now()

	fields, err := m.process(ctx, req, log)
	if err != nil {
		log.Error("ocr.mistral.failed",
			"kind", common.ErrorKind(err),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Fail(err.Error(), "")
	}
	log.Info("ocr.mistral.ok", "elapsed_ms", time.Since(start).Milliseconds())
	return extract.Ok(fields, constants.MethodOCRAPI)
}

func (m *MistralOCR) process(ctx context.Context, req extract.Request, log *slog.Logger) (extract.Object, error) {
	if m.cfg.APIKey == "" {
		return extract.Object{}, common.NewKindError(common.ErrMissingCredential,
			"%s environment variable not set", m.cfg.APIKeyEnv)
	}

	body := ocrRequest{
		Model: m.cfg.Model,
		Document: documentURL{
			Type:        "document_url",
			DocumentURL: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(req.Document.Bytes),
		},
		IncludeImageBase64: req.Strategy.IncludeImages,
	}
	log.Info("ocr.mistral.start", "pdf_bytes", len(req.Document.Bytes), "include_images", req.Strategy.IncludeImages)

	endpoint := strings.TrimRight(m.cfg.BaseURL, "/") + "/ocr"
	raw, _, err := llm.SendJSON(ctx, m.http, endpoint, body, llm.BearerHeaders(m.cfg.APIKey), log)
	if err != nil {
		return extract.Object{}, common.NewKindError(common.ErrProvider, "OCR API request failed: %v", err)
	}

	var resp ocrResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return extract.Object{}, common.NewKindError(common.ErrProvider, "decode OCR response: %v", err)
	}
	if req.Document.Pages > 0 && len(resp.Pages) != req.Document.Pages {
		log.Warn("ocr.mistral.page_count_mismatch", "document_pages", req.Document.Pages, "ocr_pages", len(resp.Pages))
	}

	markdown := make([]string, 0, len(resp.Pages))
	var images []PageImage
	for _, p := range resp.Pages {
		markdown = append(markdown, p.Markdown)
		for _, img := range p.Images {
			images = append(images, PageImage{ID: img.ID, Page: p.Index, ImageBase64: img.ImageBase64})
		}
	}

	var fields extract.Object
	fields.SetString("text", strings.Join(markdown, "\n\n"))
	if req.Strategy.IncludeImages {
		if images == nil {
			images = []PageImage{}
		}
		if err := fields.SetValue("images", images); err != nil {
			return extract.Object{}, fmt.Errorf("encode images: %w", err)
		}
	}
	return fields, nil
}
