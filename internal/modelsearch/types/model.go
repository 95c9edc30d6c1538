package types

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// ModelRecord is one entry of the registry's model listing. Numeric and boolean fields are
// zero when the registry omits them.
type ModelRecord struct {
	ID           string       `json:"id"`
	ModelID      string       `json:"modelId,omitempty"`
	Author       string       `json:"author,omitempty"`
	SHA          string       `json:"sha,omitempty"`
	PipelineTag  string       `json:"pipeline_tag,omitempty"`
	LibraryName  string       `json:"library_name,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Downloads    float64      `json:"downloads"`
	Likes        float64      `json:"likes"`
	CreatedAt    string       `json:"createdAt,omitempty"`
	LastModified string       `json:"lastModified,omitempty"`
	Private      bool         `json:"private,omitempty"`
	Gated        GatedFlag    `json:"gated,omitempty"`
	Disabled     bool         `json:"disabled,omitempty"`
	Config       *ModelConfig `json:"config,omitempty"`
	CardData     *CardData    `json:"cardData,omitempty"`
}

type ModelConfig struct {
	ModelType     string   `json:"model_type,omitempty"`
	Architectures []string `json:"architectures,omitempty"`
}

// CardData is the subset of the model card metadata the assistant looks at.
type CardData struct {
	License  FlexString `json:"license,omitempty"`
	Language StringList `json:"language,omitempty"`
	Datasets StringList `json:"datasets,omitempty"`
}

// License returns the card license or "" when the record has no card.
func (m *ModelRecord) License() string {
	if m.CardData == nil {
		return ""
	}
	return string(m.CardData.License)
}

// Clone returns a deep copy; the result shares no slices or pointers with m.
func (m *ModelRecord) Clone() ModelRecord {
	out := *m
	out.Tags = slices.Clone(m.Tags)
	if m.Config != nil {
		cfg := *m.Config
		cfg.Architectures = slices.Clone(m.Config.Architectures)
		out.Config = &cfg
	}
	if m.CardData != nil {
		card := *m.CardData
		card.Language = slices.Clone(m.CardData.Language)
		card.Datasets = slices.Clone(m.CardData.Datasets)
		out.CardData = &card
	}
	return out
}

// Name is the last path segment of the identifier ("org/name" -> "name").
func (m *ModelRecord) Name() string {
	if i := strings.LastIndex(m.ID, "/"); i >= 0 && i < len(m.ID)-1 {
		return m.ID[i+1:]
	}
	return m.ID
}

// GatedFlag accepts the registry's two encodings of gating: a bool, or an access mode
// string such as "auto" or "manual". Any mode other than "" and "false" counts as gated.
type GatedFlag bool

func (g *GatedFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*g = false
	case len(data) > 0 && data[0] == '"':
		var mode string
		if err := json.Unmarshal(data, &mode); err != nil {
			return err
		}
		mode = strings.ToLower(strings.TrimSpace(mode))
		*g = GatedFlag(mode != "" && mode != "false")
	default:
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*g = GatedFlag(b)
	}
	return nil
}

// StringList decodes either a JSON string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// FlexString decodes either a JSON string or a list of strings (joined with ",").
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var list StringList
	if err := list.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = FlexString(strings.Join(list, ","))
	return nil
}
