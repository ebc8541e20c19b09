package domain

const (
	ProviderTogether = "together"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

// ModelOption is a model the web UI offers, tagged with the provider serving it.
type ModelOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Provider string `json:"provider"`
}

// Option is a value/label pair for the length, tone and background pickers.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LanguageOption is a selectable output language.
type LanguageOption struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// Catalog groups every option list rendered by the UI.
type Catalog struct {
	Models             []ModelOption    `json:"models"`
	Languages          []LanguageOption `json:"languages"`
	Lengths            []Option         `json:"lengths"`
	Tones              []Option         `json:"tones"`
	BackgroundPresets  []Option         `json:"backgroundPresets"`
	MaxLanguagesPerRun int              `json:"maxLanguagesPerRun"`
}

// MaxUILanguages is the UI selection cap. The validator does not enforce it.
const MaxUILanguages = 3

var Models = []ModelOption{
	{Value: "gpt-4o-mini", Label: "GPT-4o Mini", Provider: ProviderOpenAI},
	{Value: "meta-llama/Llama-3.2-11B-Vision-Instruct-Turbo", Label: "Llama 3.2 11B", Provider: ProviderTogether},
	{Value: "meta-llama/Llama-3.2-90B-Vision-Instruct-Turbo", Label: "Llama 3.2 90B", Provider: ProviderTogether},
	{Value: "gemini-2.0-flash", Label: "Gemini 2.0 Flash", Provider: ProviderGemini},
}

var LanguageCodes = []string{"th", "en", "es", "fr", "de", "it", "ja", "ko", "zh", "pt"}

var Lengths = []Option{
	{Value: "short", Label: "Short"},
	{Value: "medium", Label: "Medium"},
	{Value: "long", Label: "Long"},
}

var Tones = []Option{
	{Value: "professional", Label: "Professional"},
	{Value: "casual", Label: "Casual"},
	{Value: "enthusiastic", Label: "Enthusiastic"},
	{Value: "formal", Label: "Formal"},
}

var BackgroundPresets = []Option{
	{Value: "the sun", Label: "The Sun"},
	{Value: "an old castle", Label: "Old Castle"},
	{Value: "a tropical beach", Label: "Tropical Beach"},
	{Value: "a snowy mountain", Label: "Snowy Mountain"},
	{Value: "a bustling city", Label: "Bustling City"},
	{Value: "a serene lake", Label: "Serene Lake"},
	{Value: "a lush forest", Label: "Lush Forest"},
	{Value: "a desert oasis", Label: "Desert Oasis"},
	{Value: "a starry night sky", Label: "Starry Night Sky"},
	{Value: "an underwater coral reef", Label: "Underwater Coral Reef"},
}

// LookupModel returns the catalog entry for a model identifier.
func LookupModel(value string) (ModelOption, bool) {
	for _, m := range Models {
		if m.Value == value {
			return m, true
		}
	}
	return ModelOption{}, false
}
