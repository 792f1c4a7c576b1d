package persona

import (
	"strings"
	"testing"

	"jarvis/internal/domain/models/chat"
)

// TestRender_Deterministic verifies that every (gender, role, language)
// combination renders byte-for-byte identically on repeated calls.
func TestRender_Deterministic(t *testing.T) {
	engine := NewEngine("ar")

	genders := []chat.Gender{chat.GenderMale, chat.GenderFemale}
	roles := []chat.UserRole{chat.UserRoleProfessor, chat.UserRoleStudent}
	languages := []string{"ar", "en", "fr", "de", ""}

	for _, gender := range genders {
		for _, role := range roles {
			for _, lang := range languages {
				identity := chat.Identity{
					DisplayName: "Amina",
					Gender:      gender,
					Role:        role,
				}

				first := engine.Render(identity, lang)
				second := engine.Render(identity, lang)
				if first != second {
					t.Errorf("render not deterministic for (%s,%s,%q)", gender, role, lang)
				}
				if first == "" {
					t.Errorf("empty instruction for (%s,%s,%q)", gender, role, lang)
				}
			}
		}
	}
}

// TestHonorific_FourDistinct verifies the 2x2 lookup yields four distinct
// honorifics.
func TestHonorific_FourDistinct(t *testing.T) {
	engine := NewEngine("ar")

	seen := make(map[string]string)
	for _, gender := range []chat.Gender{chat.GenderMale, chat.GenderFemale} {
		for _, role := range []chat.UserRole{chat.UserRoleProfessor, chat.UserRoleStudent} {
			h := engine.Honorific(chat.Identity{Gender: gender, Role: role})
			if h == "" {
				t.Fatalf("empty honorific for (%s,%s)", gender, role)
			}
			key := string(gender) + "/" + string(role)
			if prev, ok := seen[h]; ok {
				t.Errorf("honorific %q shared by %s and %s", h, prev, key)
			}
			seen[h] = key
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct honorifics, got %d", len(seen))
	}
}

func TestRender_LanguageDirective(t *testing.T) {
	engine := NewEngine("ar")
	identity := chat.Identity{
		DisplayName: "Ali",
		Gender:      chat.GenderMale,
		Role:        chat.UserRoleStudent,
	}

	tests := []struct {
		language string
		want     string
	}{
		{"ar", "Respond exclusively in Arabic."},
		{"en", "Respond exclusively in English."},
		{"fr", "Respond exclusively in French."},
		// Unknown languages fall back to the default deterministically
		{"de", "Respond exclusively in Arabic."},
		{"", "Respond exclusively in Arabic."},
	}

	for _, tt := range tests {
		out := engine.Render(identity, tt.language)
		if !strings.HasSuffix(out, tt.want) {
			t.Errorf("language %q: instruction does not end with %q", tt.language, tt.want)
		}
	}
}

func TestRender_ContainsIdentityAndCharter(t *testing.T) {
	engine := NewEngine("ar")
	identity := chat.Identity{
		DisplayName: "Ali",
		Gender:      chat.GenderMale,
		Role:        chat.UserRoleStudent,
	}

	out := engine.Render(identity, "ar")

	if !strings.Contains(out, "Ali") {
		t.Error("instruction does not mention the user's name")
	}
	if !strings.Contains(out, "الطالب") {
		t.Error("instruction does not contain the student-male honorific")
	}
	if !strings.Contains(out, "ASJP") {
		t.Error("instruction does not state the ASJP-first knowledge base")
	}
	if !strings.Contains(out, "name the type of knowledge source") {
		t.Error("instruction does not carry the source-attribution clause")
	}
}

func TestNewEngine_UnknownDefaultDegradesToArabic(t *testing.T) {
	engine := NewEngine("xx")
	out := engine.Render(chat.Identity{
		DisplayName: "Sara",
		Gender:      chat.GenderFemale,
		Role:        chat.UserRoleProfessor,
	}, "unknown")

	if !strings.HasSuffix(out, "Respond exclusively in Arabic.") {
		t.Error("unknown default language did not degrade to Arabic")
	}
}
