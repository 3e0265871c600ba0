package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/snapbook/opsconsole/internal/adapter/outbound/backend"
	"github.com/snapbook/opsconsole/internal/domain/admin"
	"github.com/snapbook/opsconsole/internal/port/outbound"
)

// ErrInvalidSettings is returned when the settings form cannot be encoded.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the platform configuration as edited in the ops screen. Every
// field is the text the operator typed.
type Settings struct {
	AutoCancelHours   string
	RefundPenaltyRate string
	DisputePriority   string
	// DemandTags and PhotographerTags are comma separated.
	DemandTags       string
	PhotographerTags string
	// RecommendSlots and ActivityBanners are JSON documents.
	RecommendSlots  string
	ActivityBanners string
}

// SettingsService reads and writes the platform configuration keys.
type SettingsService struct {
	api    outbound.AdminAPI
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(api outbound.AdminAPI, logger *slog.Logger) *SettingsService {
	return &SettingsService{api: api, logger: logger}
}

// Load fetches every key concurrently. Keys the backend does not know are
// left blank; an unauthorized answer aborts the load.
func (s *SettingsService) Load(ctx context.Context) (Settings, error) {
	var (
		mu     sync.Mutex
		values = make(map[string]json.RawMessage, len(admin.ConfigKeys))
	)

	p := pool.New().WithErrors()
	for _, key := range admin.ConfigKeys {
		p.Go(func() error {
			cfg, err := s.api.GetConfig(ctx, key)
			if err != nil {
				if backend.IsRequestFailed(err) {
					s.logger.Debug("config key not available", "key", key, "error", err)
					return nil
				}
				return err
			}
			mu.Lock()
			values[key] = cfg.Value
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		if backend.IsUnauthorized(err) {
			return Settings{}, backend.ErrUnauthorized
		}
		return Settings{}, err
	}
	return DecodeSettings(values), nil
}

// Save encodes the form and writes every key concurrently.
func (s *SettingsService) Save(ctx context.Context, in Settings) error {
	payloads, err := EncodeSettings(in)
	if err != nil {
		return err
	}

	p := pool.New().WithErrors()
	for _, key := range admin.ConfigKeys {
		value := payloads[key]
		p.Go(func() error {
			if _, err := s.api.UpdateConfig(ctx, key, value); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		if backend.IsUnauthorized(err) {
			return backend.ErrUnauthorized
		}
		return err
	}
	s.logger.Info("platform settings saved")
	return nil
}

// EncodeSettings converts the form into one JSON value per config key.
func EncodeSettings(in Settings) (map[string][]byte, error) {
	slots, err := jsonOrEmptyList(in.RecommendSlots)
	if err != nil {
		return nil, fmt.Errorf("%w: recommend slots must be valid JSON", ErrInvalidSettings)
	}
	banners, err := jsonOrEmptyList(in.ActivityBanners)
	if err != nil {
		return nil, fmt.Errorf("%w: activity banners must be valid JSON", ErrInvalidSettings)
	}
	if in.DisputePriority != "" && !admin.ValidOption(admin.DisputePriorityOptions, in.DisputePriority) {
		return nil, fmt.Errorf("%w: unknown dispute priority %q", ErrInvalidSettings, in.DisputePriority)
	}

	out := map[string][]byte{
		"order_auto_cancel_hours": numberOrText(in.AutoCancelHours),
		"refund_penalty_rate":     numberOrText(in.RefundPenaltyRate),
		"dispute_priority":        textOrNull(in.DisputePriority),
		"demand_tags":             mustJSON(splitTags(in.DemandTags)),
		"photographer_tags":       mustJSON(splitTags(in.PhotographerTags)),
		"recommend_slots":         slots,
		"activity_banners":        banners,
	}
	return out, nil
}

// DecodeSettings renders stored values back into form text.
func DecodeSettings(values map[string]json.RawMessage) Settings {
	return Settings{
		AutoCancelHours:   scalarText(values["order_auto_cancel_hours"]),
		RefundPenaltyRate: scalarText(values["refund_penalty_rate"]),
		DisputePriority:   scalarText(values["dispute_priority"]),
		DemandTags:        joinTags(values["demand_tags"]),
		PhotographerTags:  joinTags(values["photographer_tags"]),
		RecommendSlots:    indentJSON(values["recommend_slots"]),
		ActivityBanners:   indentJSON(values["activity_banners"]),
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func joinTags(raw json.RawMessage) string {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return ""
	}
	return strings.Join(tags, ",")
}

// numberOrText sends numbers as numbers, other text as a string and blank as null.
func numberOrText(s string) []byte {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte("null")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f != 0 {
		return mustJSON(f)
	}
	return mustJSON(s)
}

func textOrNull(s string) []byte {
	if s = strings.TrimSpace(s); s == "" {
		return []byte("null")
	}
	return mustJSON(s)
}

func jsonOrEmptyList(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte("[]"), nil
	}
	if !json.Valid([]byte(s)) {
		return nil, errors.New("invalid json")
	}
	return []byte(s), nil
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func indentJSON(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
