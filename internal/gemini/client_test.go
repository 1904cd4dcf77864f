package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestConvertHistory_RoleMapping(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Text: "hello"},
		{Role: RoleModel, Text: "hi there"},
		{Role: "something-else", Text: "fallback"},
	}

	contents := convertHistory(history)

	if len(contents) != 3 {
		t.Fatalf("Expected 3 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" {
		t.Errorf("Expected role 'user', got %q", contents[0].Role)
	}
	if contents[1].Role != "model" {
		t.Errorf("Expected role 'model', got %q", contents[1].Role)
	}
	// Unknown roles fall back to user rather than producing an invalid turn
	if contents[2].Role != "user" {
		t.Errorf("Expected fallback role 'user', got %q", contents[2].Role)
	}
}

func TestConvertHistory_PreservesOrderAndText(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Text: "first"},
		{Role: RoleModel, Text: "second"},
	}

	contents := convertHistory(history)

	for i, want := range []string{"first", "second"} {
		if len(contents[i].Parts) != 1 {
			t.Fatalf("Expected 1 part at %d, got %d", i, len(contents[i].Parts))
		}
		got, ok := contents[i].Parts[0].(genai.Text)
		if !ok {
			t.Fatalf("Expected text part at %d", i)
		}
		if string(got) != want {
			t.Errorf("Expected %q at %d, got %q", want, i, got)
		}
	}
}

func TestConvertHistory_Empty(t *testing.T) {
	contents := convertHistory(nil)
	if len(contents) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(contents))
	}
}

func TestPartConversion(t *testing.T) {
	text := TextPart("describe this").toGenai()
	if _, ok := text.(genai.Text); !ok {
		t.Errorf("Expected genai.Text, got %T", text)
	}

	img := ImagePart{Format: "jpeg", Data: []byte{0xff, 0xd8}}.toGenai()
	blob, ok := img.(genai.Blob)
	if !ok {
		t.Fatalf("Expected genai.Blob, got %T", img)
	}
	if blob.MIMEType != "image/jpeg" {
		t.Errorf("Expected MIME type image/jpeg, got %q", blob.MIMEType)
	}
}

func TestExtractText_MultipleCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("**hi**")}}},
			{Content: nil},
		},
	}

	if got := extractText(resp); got != "**hi**" {
		t.Errorf("Expected '**hi**', got %q", got)
	}
}
