package locale

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"jarvis/internal/domain"
)

//go:embed messages/*.yaml
var messageFiles embed.FS

// Languages supported by the platform. Anything else falls back to the
// bundle's default language deterministically.
var supported = []string{"ar", "en", "fr"}

// Messages is one language's message catalog.
type Messages struct {
	// Errors maps error kinds to the sentence rendered in the transcript
	// in place of an assistant turn.
	Errors map[string]string `yaml:"errors"`

	// AttachmentFallback is the text substituted for a user turn that
	// carries a file but no prompt.
	AttachmentFallback string `yaml:"attachment_fallback"`
}

// Bundle holds the message catalogs for all supported languages.
type Bundle struct {
	languages map[string]*Messages
	fallback  string
	mu        sync.RWMutex
}

// NewBundle loads the embedded catalogs. defaultLanguage must be one of
// the supported languages; it becomes the fallback for unknown languages.
func NewBundle(defaultLanguage string) (*Bundle, error) {
	b := &Bundle{
		languages: make(map[string]*Messages),
		fallback:  defaultLanguage,
	}

	for _, lang := range supported {
		if err := b.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load %s messages: %w", lang, err)
		}
	}

	if _, ok := b.languages[defaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q is not supported", defaultLanguage)
	}

	return b, nil
}

func (b *Bundle) loadLanguage(lang string) error {
	filename := fmt.Sprintf("messages/%s.yaml", lang)
	data, err := messageFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var msgs Messages
	if err := yaml.Unmarshal(data, &msgs); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	b.mu.Lock()
	b.languages[lang] = &msgs
	b.mu.Unlock()

	return nil
}

// Normalize returns lang if it is supported, otherwise the default.
func (b *Bundle) Normalize(lang string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.languages[lang]; ok {
		return lang
	}
	return b.fallback
}

// ErrorMessage returns the localized sentence for an error kind.
func (b *Bundle) ErrorMessage(lang string, kind domain.ErrorKind) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs, ok := b.languages[lang]
	if !ok {
		msgs = b.languages[b.fallback]
	}
	if msg, ok := msgs.Errors[string(kind)]; ok {
		return msg
	}
	// Every kind has a catalog entry; this is a catalog defect guard.
	return msgs.Errors[string(domain.KindUnknown)]
}

// AttachmentFallback returns the localized file-only prompt marker.
func (b *Bundle) AttachmentFallback(lang string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs, ok := b.languages[lang]
	if !ok {
		msgs = b.languages[b.fallback]
	}
	return msgs.AttachmentFallback
}

// Supported returns the supported language codes.
func (b *Bundle) Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}
