package db_models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type FormField struct {
	Enabled     bool   `json:"enabled"`
	Required    bool   `json:"required"`
	Label       string `json:"label" validate:"max=200"`
	Placeholder string `json:"placeholder" validate:"max=200"`
}

type FormFields struct {
	Name   FormField `json:"name"`
	Email  FormField `json:"email"`
	Rating FormField `json:"rating"`
	Text   FormField `json:"text"`
	Photo  FormField `json:"photo"`
	Video  FormField `json:"video"`
}

type FormCustomization struct {
	Title            string            `json:"title" validate:"max=200"`
	Description      string            `json:"description" validate:"max=1000"`
	SubmitButtonText string            `json:"submitButtonText" validate:"max=100"`
	SuccessTitle     string            `json:"successTitle" validate:"max=200"`
	SuccessMessage   string            `json:"successMessage" validate:"max=1000"`
	RatingEmojis     map[string]string `json:"ratingEmojis"`
}

type FormStyling struct {
	PrimaryColor   string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor" validate:"omitempty,hexcolor"`
	FontFamily     string `json:"fontFamily" validate:"max=100"`
	BorderRadius   string `json:"borderRadius" validate:"max=20"`
	ShowLogo       bool   `json:"showLogo"`
	ShowPoweredBy  bool   `json:"showPoweredBy"`
}

// FormConfig drives the public submission form of a campaign.
type FormConfig struct {
	Fields        FormFields        `json:"fields"`
	Customization FormCustomization `json:"customization"`
	Styling       FormStyling       `json:"styling"`
}

func DefaultFormConfig() FormConfig {
	return FormConfig{
		Fields: FormFields{
			Name:   FormField{Enabled: true, Required: true, Label: "Your Name", Placeholder: "John Doe"},
			Email:  FormField{Enabled: true, Label: "Email", Placeholder: "you@example.com"},
			Rating: FormField{Enabled: true, Required: true, Label: "How would you rate your experience?"},
			Text:   FormField{Enabled: true, Label: "Your Testimonial", Placeholder: "Share your experience..."},
			Photo:  FormField{Enabled: true, Label: "Add Photos"},
			Video:  FormField{Enabled: true, Label: "Add Video"},
		},
		Customization: FormCustomization{
			SubmitButtonText: "Submit Testimonial",
			SuccessTitle:     "Thank You!",
			SuccessMessage:   "Your testimonial has been submitted successfully and is awaiting approval.",
			RatingEmojis: map[string]string{
				"1": "😞 Needs Improvement",
				"2": "😐 Fair",
				"3": "👍 Good!",
				"4": "😊 Great!",
				"5": "⭐ Excellent!",
			},
		},
		Styling: FormStyling{
			PrimaryColor:   "#4FD1C5",
			SecondaryColor: "#38B2AC",
			FontFamily:     "Inter",
			BorderRadius:   "12px",
			ShowLogo:       true,
			ShowPoweredBy:  true,
		},
	}
}

// DecodeFormConfig overlays a stored config onto the defaults. Keys missing from raw keep their
// default values; an empty raw yields the defaults.
func DecodeFormConfig(raw datatypes.JSON) (FormConfig, error) {
	cfg := DefaultFormConfig()
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	// json.Unmarshal merges into existing maps, start the emoji map fresh when raw carries one
	var probe struct {
		Customization struct {
			RatingEmojis json.RawMessage `json:"ratingEmojis"`
		} `json:"customization"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return cfg, err
	}
	if len(probe.Customization.RatingEmojis) > 0 {
		cfg.Customization.RatingEmojis = nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return DefaultFormConfig(), err
	}
	return cfg, nil
}

func EncodeFormConfig(cfg FormConfig) (datatypes.JSON, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
