// Package persona renders the system instruction that fixes the
// assistant's identity, domain restrictions, and response language.
package persona

import (
	"fmt"
	"strings"

	"jarvis/internal/domain/models/chat"
)

// domainStatement is the assistant's fixed charter: academic consultation
// only, Algerian/ASJP sources first, global journals second, refuse
// everything off-topic.
const domainStatement = "You are Jarvis, a highly intelligent AI assistant for the " +
	"'جامعتك الرقمية way' (Your Digital University Way) platform. Your purpose is to " +
	"provide academic consultations to students and professors. Your primary knowledge " +
	"base is strictly limited to Algerian scientific and research sources, with a " +
	"special emphasis on the Algerian Scientific Journal Platform (ASJP). You must " +
	"prioritize information from these sources above all else. If a query cannot be " +
	"answered using Algerian sources, you may then consult global scientific journals " +
	"as a secondary source. You only provide academic consultation: politely refuse " +
	"any request outside that domain. If you cannot find an answer, state that clearly."

const attributionClause = "When you answer, you must always name the type of knowledge " +
	"source you relied on: Algerian/ASJP or global scientific journals."

type honorificKey struct {
	gender chat.Gender
	role   chat.UserRole
}

// honorifics is the fixed 2x2 lookup. Four distinct values; the pair
// (gender, role) fully determines the honorific.
var honorifics = map[honorificKey]string{
	{chat.GenderMale, chat.UserRoleProfessor}:   "الأستاذ",
	{chat.GenderFemale, chat.UserRoleProfessor}: "الأستاذة",
	{chat.GenderMale, chat.UserRoleStudent}:     "الطالب",
	{chat.GenderFemale, chat.UserRoleStudent}:   "الطالبة",
}

// languageNames maps supported language codes to the name used in the
// terminal response-language directive.
var languageNames = map[string]string{
	"ar": "Arabic",
	"en": "English",
	"fr": "French",
}

// Engine renders system instructions. It carries only the configured
// default language used when an unknown language code is supplied.
type Engine struct {
	defaultLanguage string
}

// NewEngine creates a persona engine. defaultLanguage should be a
// supported code; anything else degrades to Arabic, the platform default.
func NewEngine(defaultLanguage string) *Engine {
	if _, ok := languageNames[defaultLanguage]; !ok {
		defaultLanguage = "ar"
	}
	return &Engine{defaultLanguage: defaultLanguage}
}

// Honorific returns the fixed honorific for an identity.
func (e *Engine) Honorific(identity chat.Identity) string {
	if h, ok := honorifics[honorificKey{identity.Gender, identity.Role}]; ok {
		return h
	}
	// Unmarked identities address as student; validation upstream keeps
	// this path out of production traffic.
	return honorifics[honorificKey{chat.GenderMale, chat.UserRoleStudent}]
}

// LanguageName returns the directive name for a language code, falling
// back to the engine's default for unknown codes.
func (e *Engine) LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames[e.defaultLanguage]
}

// Render produces the full system instruction for one call. Pure string
// construction: the same inputs always produce the same output.
func (e *Engine) Render(identity chat.Identity, language string) string {
	honorific := e.Honorific(identity)

	langName, ok := languageNames[language]
	if !ok {
		langName = languageNames[e.defaultLanguage]
	}

	var b strings.Builder
	b.WriteString(domainStatement)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "You are assisting %s %s. Always address the user by name together "+
		"with the honorific %q.", honorific, identity.DisplayName, honorific)
	b.WriteString("\n\n")
	b.WriteString(attributionClause)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Respond exclusively in %s.", langName)

	return b.String()
}
