// Package pinning talks to a Pinata-compatible IPFS pinning service.
package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"pinshare/internal/domain/file"
)

var errNotConfigured = errors.New("pinning service credentials are not set; set PINATA_API_KEY and PINATA_SECRET_KEY")

// Config carries the pinning service settings.
type Config struct {
	APIKey     string
	SecretKey  string
	BaseURL    string
	GatewayURL string
	Timeout    time.Duration
}

// PinataClient pins and unpins content through the Pinata HTTP API.
type PinataClient struct {
	cfg    Config
	client *resty.Client
	log    zerolog.Logger
}

var _ file.Pinner = (*PinataClient)(nil)

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
	PinSize  int64  `json:"PinSize"`
}

type pinataMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues,omitempty"`
}

type pinataOptions struct {
	CidVersion int `json:"cidVersion"`
}

func NewPinataClient(cfg Config, log zerolog.Logger) *PinataClient {
	logger := log.With().Str("component", "pinata-client").Logger()
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		logger.Warn().Msg("pinning credentials are not set; uploads will be rejected until configured")
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("pinata_api_key", cfg.APIKey).
		SetHeader("pinata_secret_api_key", cfg.SecretKey)

	return &PinataClient{
		cfg:    cfg,
		client: client,
		log:    logger,
	}
}

// Configured reports whether credentials are present.
func (p *PinataClient) Configured() bool {
	return p.cfg.APIKey != "" && p.cfg.SecretKey != ""
}

// PinFile streams the file at path plus a metadata envelope to the pinning
// endpoint and returns the resulting content address. No retries are
// attempted here; retry policy belongs to the caller.
func (p *PinataClient) PinFile(ctx context.Context, path string, meta file.PinMetadata) (string, error) {
	if !p.Configured() {
		return "", errNotConfigured
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	metaJSON, err := json.Marshal(pinataMetadata{
		Name: meta.Name,
		KeyValues: map[string]string{
			"compressed": fmt.Sprintf("%t", meta.Compressed),
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode pin metadata: %w", err)
	}
	optsJSON, err := json.Marshal(pinataOptions{CidVersion: 0})
	if err != nil {
		return "", fmt.Errorf("encode pin options: %w", err)
	}

	var result pinResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetFileReader("file", filepath.Base(path), f).
		SetMultipartFormData(map[string]string{
			"pinataMetadata": string(metaJSON),
			"pinataOptions":  string(optsJSON),
		}).
		SetResult(&result).
		Post("/pinning/pinFileToIPFS")
	if err != nil {
		return "", fmt.Errorf("pin request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("pin service returned %s: %s", resp.Status(), resp.String())
	}
	if result.IpfsHash == "" {
		return "", errors.New("pin service returned an empty content address")
	}

	p.log.Info().Str("cid", result.IpfsHash).Int64("pin_size", result.PinSize).Msg("content pinned")
	return result.IpfsHash, nil
}

// Unpin asks the service to release the content address.
func (p *PinataClient) Unpin(ctx context.Context, cid string) error {
	if !p.Configured() {
		return errNotConfigured
	}

	resp, err := p.client.R().
		SetContext(ctx).
		Delete("/pinning/unpin/" + cid)
	if err != nil {
		return fmt.Errorf("unpin request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("unpin service returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// GatewayURL returns the public gateway location for a content address.
func (p *PinataClient) GatewayURL(cid string) string {
	return p.cfg.GatewayURL + "/ipfs/" + cid
}
