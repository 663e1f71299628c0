package job

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shailu9/MediaInfoApi/domain/media"
)

// TrimParams select the range a trim job keeps
type TrimParams struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExtractParams tune an audio extraction job. All fields are optional;
// a range needs both endpoints.
type ExtractParams struct {
	Bitrate string `json:"bitrate,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// SilenceParams tune a silence scan. Zero values fall back to the
// analysis defaults.
type SilenceParams struct {
	NoiseDB     float64 `json:"noise_db,omitempty"`
	MinDuration float64 `json:"min_duration,omitempty"`
}

// TemplateParams name the template image a scan looks for
type TemplateParams struct {
	Template       string  `json:"template"`
	FrameInterval  int     `json:"frame_interval,omitempty"`
	MatchThreshold float64 `json:"match_threshold,omitempty"`
}

// ParseTrimParams decodes and validates trim job parameters
func ParseTrimParams(raw json.RawMessage) (TrimParams, error) {
	var p TrimParams
	if err := unmarshalParams(raw, &p); err != nil {
		return TrimParams{}, err
	}
	if p.Start == "" || p.End == "" {
		return TrimParams{}, errors.New("trim requires start and end timestamps")
	}
	start, err := media.ParseTimestamp(p.Start)
	if err != nil {
		return TrimParams{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := media.ParseTimestamp(p.End)
	if err != nil {
		return TrimParams{}, fmt.Errorf("invalid end time: %w", err)
	}
	if !end.After(start) {
		return TrimParams{}, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return p, nil
}

// ParseExtractParams decodes and validates audio extraction parameters
func ParseExtractParams(raw json.RawMessage) (ExtractParams, error) {
	var p ExtractParams
	if err := unmarshalParams(raw, &p); err != nil {
		return ExtractParams{}, err
	}
	if p.Bitrate != "" {
		if err := media.ValidateBitrate(p.Bitrate); err != nil {
			return ExtractParams{}, err
		}
	}
	if (p.Start == "") != (p.End == "") {
		return ExtractParams{}, errors.New("start and end must be given together")
	}
	if p.Start != "" {
		start, err := media.ParseTimestamp(p.Start)
		if err != nil {
			return ExtractParams{}, fmt.Errorf("invalid start time: %w", err)
		}
		end, err := media.ParseTimestamp(p.End)
		if err != nil {
			return ExtractParams{}, fmt.Errorf("invalid end time: %w", err)
		}
		if !end.After(start) {
			return ExtractParams{}, fmt.Errorf("end time %s must be after start time %s", end, start)
		}
	}
	return p, nil
}

// ParseSilenceParams decodes and validates silence scan parameters
func ParseSilenceParams(raw json.RawMessage) (SilenceParams, error) {
	var p SilenceParams
	if err := unmarshalParams(raw, &p); err != nil {
		return SilenceParams{}, err
	}
	if p.NoiseDB > 0 {
		return SilenceParams{}, fmt.Errorf("noise_db %.1f must be negative dBFS", p.NoiseDB)
	}
	if p.MinDuration < 0 {
		return SilenceParams{}, fmt.Errorf("min_duration %.1f must not be negative", p.MinDuration)
	}
	return p, nil
}

// ParseTemplateParams decodes and validates template scan parameters
func ParseTemplateParams(raw json.RawMessage) (TemplateParams, error) {
	var p TemplateParams
	if err := unmarshalParams(raw, &p); err != nil {
		return TemplateParams{}, err
	}
	if p.Template == "" {
		return TemplateParams{}, errors.New("template name is required")
	}
	if p.FrameInterval < 0 {
		return TemplateParams{}, fmt.Errorf("frame_interval %d must not be negative", p.FrameInterval)
	}
	if p.MatchThreshold < 0 || p.MatchThreshold > 1 {
		return TemplateParams{}, fmt.Errorf("match_threshold %.2f must be between 0 and 1", p.MatchThreshold)
	}
	return p, nil
}

// ValidateParams checks kind-specific parameters before a job is accepted.
// Probe jobs take no parameters; any given are ignored.
func ValidateParams(kind Kind, raw json.RawMessage) error {
	var err error
	switch kind {
	case KindProbe:
		err = nil
	case KindTrim:
		_, err = ParseTrimParams(raw)
	case KindExtractAudio:
		_, err = ParseExtractParams(raw)
	case KindSilenceScan:
		_, err = ParseSilenceParams(raw)
	case KindTemplateScan:
		_, err = ParseTemplateParams(raw)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return err
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed params: %w", err)
	}
	return nil
}
