package assistant

import (
	"binhoard-api/internal/common"
	"binhoard-api/internal/inventory"
)

// ProviderKind identifies one of the supported AI backends. All three speak
// an OpenAI-compatible chat completions protocol; "custom" points at a
// caller-supplied endpoint.
type ProviderKind string

const (
	ProviderOpenAI     ProviderKind = "openai"
	ProviderOpenRouter ProviderKind = "openrouter"
	ProviderCustom     ProviderKind = "custom"
)

// IsValid checks if the ProviderKind is valid
func (k ProviderKind) IsValid() bool {
	switch k {
	case ProviderOpenAI, ProviderOpenRouter, ProviderCustom:
		return true
	default:
		return false
	}
}

// ProviderConfig carries the caller's provider selection for the duration
// of one request. It is never persisted and the key is never logged.
type ProviderConfig struct {
	Provider    ProviderKind `json:"provider"`
	APIKey      string       `json:"api_key"`
	Model       string       `json:"model"`
	EndpointURL string       `json:"endpoint_url,omitempty"`
}

// Validate checks that the config is usable for a gateway call
func (c ProviderConfig) Validate() error {
	if !c.Provider.IsValid() {
		return common.ValidationError{Field: "provider", Message: "must be one of: openai, openrouter, custom"}
	}
	if c.Model == "" {
		return common.ValidationError{Field: "model", Message: "model is required"}
	}
	if c.Provider == ProviderCustom && c.EndpointURL == "" {
		return common.ValidationError{Field: "endpoint_url", Message: "endpoint URL is required for custom providers"}
	}
	if c.Provider != ProviderCustom && c.APIKey == "" {
		return common.ValidationError{Field: "api_key", Message: "API key is required"}
	}
	return nil
}

// BinSummary is the snapshot form of a bin embedded into prompts
type BinSummary struct {
	ID        common.BinID   `json:"id"`
	Name      string         `json:"name"`
	Items     []string       `json:"items"`
	Tags      []string       `json:"tags"`
	AreaID    *common.AreaID `json:"area_id,omitempty"`
	AreaName  string         `json:"area_name,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Icon      string         `json:"icon,omitempty"`
	Color     string         `json:"color,omitempty"`
	ShortCode string         `json:"short_code"`
}

// AreaSummary is the snapshot form of an area embedded into prompts
type AreaSummary struct {
	ID   common.AreaID `json:"id"`
	Name string        `json:"name"`
}

// CommandContext is the immutable snapshot of a location's inventory passed
// into one interpretation request
type CommandContext struct {
	LocationID common.LocationID `json:"location_id"`
	Bins       []BinSummary      `json:"bins"`
	Areas      []AreaSummary     `json:"areas"`
	Colors     []string          `json:"colors"`
	Icons      []string          `json:"icons"`
}

// Fixed vocabularies the model must choose from. Enumerated verbatim in
// prompts so the model cannot invent values outside them.
var (
	ColorKeys = []string{
		"red", "orange", "amber", "yellow", "lime", "green", "teal",
		"cyan", "blue", "indigo", "violet", "purple", "pink", "gray",
	}

	IconKeys = []string{
		"box", "toolbox", "kitchen", "garage", "closet", "books",
		"electronics", "clothing", "toys", "sports", "garden",
		"holiday", "office", "bathroom", "pantry", "misc",
	}
)

// maxSnapshotNotes caps the notes carried per bin into the prompt snapshot
const maxSnapshotNotes = 200

// NewCommandContext builds a snapshot from live store records. Notes are
// truncated so a single verbose bin cannot crowd out the rest of the prompt.
func NewCommandContext(locationID common.LocationID, bins []*inventory.Bin, areas []*inventory.Area) CommandContext {
	areaNames := make(map[common.AreaID]string, len(areas))
	areaSummaries := make([]AreaSummary, 0, len(areas))
	for _, area := range areas {
		areaNames[area.ID] = area.Name
		areaSummaries = append(areaSummaries, AreaSummary{ID: area.ID, Name: area.Name})
	}

	binSummaries := make([]BinSummary, 0, len(bins))
	for _, bin := range bins {
		notes := bin.Notes
		if len(notes) > maxSnapshotNotes {
			notes = notes[:maxSnapshotNotes]
		}

		summary := BinSummary{
			ID:        bin.ID,
			Name:      bin.Name,
			Items:     append([]string(nil), bin.Items...),
			Tags:      append([]string(nil), bin.Tags...),
			Notes:     notes,
			Icon:      bin.Icon,
			Color:     bin.Color,
			ShortCode: bin.ShortCode,
		}
		if bin.AreaID != nil {
			summary.AreaID = bin.AreaID
			summary.AreaName = areaNames[*bin.AreaID]
		}
		binSummaries = append(binSummaries, summary)
	}

	return CommandContext{
		LocationID: locationID,
		Bins:       binSummaries,
		Areas:      areaSummaries,
		Colors:     ColorKeys,
		Icons:      IconKeys,
	}
}

// InterpretationResult is the outcome of one interpretation request. The
// interpretation line is shown to the user even when no actions resolved.
type InterpretationResult struct {
	Actions        []Action `json:"actions"`
	Interpretation string   `json:"interpretation"`
}

// PhotoSuggestion is the structured result of the photo-analysis flow
type PhotoSuggestion struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
	Tags  []string `json:"tags"`
	Notes string   `json:"notes"`
}

// DictationResult is the structured result of the dictation-to-items flow
type DictationResult struct {
	Items []string `json:"items"`
}

// ImagePayload carries one image attachment for the photo-analysis flow
type ImagePayload struct {
	Data     string `json:"data" validate:"required"` // base64-encoded
	MimeType string `json:"mime_type" validate:"required"`
}
