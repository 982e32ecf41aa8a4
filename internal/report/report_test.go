package report

import "testing"

func TestFamilyOrder(t *testing.T) {
	want := []ModelFamily{FamilyClaude, FamilyGPT, FamilyCopilot, FamilyGemini, FamilyHuman}
	if len(FamilyOrder) != len(want) {
		t.Fatalf("len(FamilyOrder) = %d, want %d", len(FamilyOrder), len(want))
	}
	for i, f := range want {
		if FamilyOrder[i] != f {
			t.Errorf("FamilyOrder[%d] = %q, want %q", i, FamilyOrder[i], f)
		}
	}
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in      string
		want    ModelFamily
		wantErr bool
	}{
		{"claude", FamilyClaude, false},
		{"Claude", FamilyClaude, false},
		{" GPT ", FamilyGPT, false},
		{"openai", FamilyGPT, false},
		{"copilot", FamilyCopilot, false},
		{"gemini", FamilyGemini, false},
		{"human", FamilyHuman, false},
		{"skynet", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFamily(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFamily(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := FamilyGPT.Display(); got != "GPT" {
		t.Errorf("GPT display = %q", got)
	}
	if got := FamilyClaude.Display(); got != "Claude" {
		t.Errorf("Claude display = %q", got)
	}
	if got := FamilyHuman.Display(); got != "Human" {
		t.Errorf("Human display = %q", got)
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		source string
		want   int
	}{
		{"", 0},
		{"\n\n\n", 0},
		{"a", 1},
		{"a\nb\nc", 3},
		{"a\n\n  \nb\n", 2},
	}

	for _, tt := range tests {
		if got := CountLines(tt.source); got != tt.want {
			t.Errorf("CountLines(%q) = %d, want %d", tt.source, got, tt.want)
		}
	}
}
