// Package ads parses ad placements sent by the content backend and decides
// whether a placement should be shown in a visitor's session.
package ads

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
)

// Kind tags the creative variant carried by a placement.
type Kind string

const (
	KindImage Kind = "image"
	KindHTML  Kind = "html"
	KindText  Kind = "text"
)

// Creative is one of ImageCreative, HTMLCreative or TextCreative.
type Creative interface {
	Kind() Kind
	validate() error
}

type ImageCreative struct {
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
	AltText   string `json:"altText,omitempty"`
}

func (ImageCreative) Kind() Kind { return KindImage }

func (c ImageCreative) validate() error {
	if err := requireURL("imageUrl", c.ImageURL); err != nil {
		return err
	}
	return requireURL("targetUrl", c.TargetURL)
}

type HTMLCreative struct {
	Markup string `json:"markup"`
}

func (HTMLCreative) Kind() Kind { return KindHTML }

func (c HTMLCreative) validate() error {
	if strings.TrimSpace(c.Markup) == "" {
		return apperr.NewMalformedPayload("ad", "content.markup", "required", nil)
	}
	return nil
}

type TextCreative struct {
	Headline  string `json:"headline"`
	Body      string `json:"body,omitempty"`
	CTALabel  string `json:"ctaLabel,omitempty"`
	TargetURL string `json:"targetUrl"`
}

func (TextCreative) Kind() Kind { return KindText }

func (c TextCreative) validate() error {
	if strings.TrimSpace(c.Headline) == "" {
		return apperr.NewMalformedPayload("ad", "content.headline", "required", nil)
	}
	return requireURL("targetUrl", c.TargetURL)
}

// Placement is a validated ad for a page slot.
type Placement struct {
	ID       string   `json:"id"`
	Slot     string   `json:"slot"`
	Creative Creative `json:"-"`
}

// MarshalJSON flattens the creative back into {type, content}.
func (p Placement) MarshalJSON() ([]byte, error) {
	var kind Kind
	if p.Creative != nil {
		kind = p.Creative.Kind()
	}
	return json.Marshal(struct {
		ID      string   `json:"id"`
		Slot    string   `json:"slot"`
		Type    Kind     `json:"type"`
		Content Creative `json:"content"`
	}{p.ID, p.Slot, kind, p.Creative})
}

// rawPlacement is the backend shape: content is a JSON document encoded as
// a string.
type rawPlacement struct {
	ID      string `json:"id"`
	Slot    string `json:"slot"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ParsePlacement decodes and validates a backend ad payload. Any deviation
// from a known variant returns an *apperr.MalformedPayloadError.
func ParsePlacement(data []byte) (Placement, error) {
	var raw rawPlacement
	if err := json.Unmarshal(data, &raw); err != nil {
		return Placement{}, apperr.NewMalformedPayload("ad", "", "not a placement object", err)
	}
	if strings.TrimSpace(raw.ID) == "" {
		return Placement{}, apperr.NewMalformedPayload("ad", "id", "required", nil)
	}
	if strings.TrimSpace(raw.Slot) == "" {
		return Placement{}, apperr.NewMalformedPayload("ad", "slot", "required", nil)
	}
	if strings.TrimSpace(raw.Content) == "" {
		return Placement{}, apperr.NewMalformedPayload("ad", "content", "required", nil)
	}

	var creative Creative
	switch Kind(raw.Type) {
	case KindImage:
		var c ImageCreative
		if err := decodeContent(raw.Content, &c); err != nil {
			return Placement{}, err
		}
		creative = c
	case KindHTML:
		var c HTMLCreative
		if err := decodeContent(raw.Content, &c); err != nil {
			return Placement{}, err
		}
		creative = c
	case KindText:
		var c TextCreative
		if err := decodeContent(raw.Content, &c); err != nil {
			return Placement{}, err
		}
		creative = c
	default:
		return Placement{}, apperr.NewMalformedPayload("ad", "type", "unknown variant "+quote(raw.Type), nil)
	}

	if err := creative.validate(); err != nil {
		return Placement{}, err
	}
	return Placement{ID: raw.ID, Slot: raw.Slot, Creative: creative}, nil
}

func decodeContent(content string, v any) error {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.NewMalformedPayload("ad", "content", "invalid encoded content", err)
	}
	return nil
}

func requireURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apperr.NewMalformedPayload("ad", "content."+field, "required", nil)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.NewMalformedPayload("ad", "content."+field, "not an absolute http(s) url", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
