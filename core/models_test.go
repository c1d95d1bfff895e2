package core

import (
	"encoding/json"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("Data Science Intern HelioWorks")
	id2 := IDFromContent("Data Science Intern HelioWorks")
	if id1 != id2 {
		t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
	}

	other := IDFromContent("Backend Intern HelioWorks")
	if id1 == other {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestStipend_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Stipend
	}{
		{
			name: "string value",
			data: `"5000-8000 per month"`,
			want: Stipend{Raw: "5000-8000 per month"},
		},
		{
			name: "integer value",
			data: `12000`,
			want: Stipend{Value: 12000, Numeric: true},
		},
		{
			name: "float value",
			data: `6500.75`,
			want: Stipend{Value: 6500.75, Numeric: true},
		},
		{
			name: "null",
			data: `null`,
			want: Stipend{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Stipend
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.data, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestItemID_UnmarshalJSON(t *testing.T) {
	var item Internship
	data := `{"internship_id": 42, "title": "t", "organization": "o"}`
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if item.ID != "42" {
		t.Errorf("numeric id = %q, want %q", item.ID, "42")
	}

	data = `{"internship_id": "i-7", "title": "t", "organization": "o"}`
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if item.ID != "i-7" {
		t.Errorf("string id = %q, want %q", item.ID, "i-7")
	}
}

func TestInternship_EmbeddingText(t *testing.T) {
	tests := []struct {
		name string
		item Internship
		want string
	}{
		{
			name: "all fields",
			item: Internship{
				Title:        "Data Science Intern",
				Organization: "HelioWorks",
				Description:  "Work on models",
				Skills:       "Python, SQL",
			},
			want: "Data Science Intern HelioWorks Work on models Python, SQL",
		},
		{
			name: "optional fields missing",
			item: Internship{
				Title:        "Design Intern",
				Organization: "Studio Nine",
			},
			want: "Design Intern Studio Nine  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.item.EmbeddingText()
			if got != tt.want {
				t.Errorf("EmbeddingText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTier_String(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierNoResults, "no_results"},
		{TierSuggestion, "suggestion"},
		{TierResults, "results"},
		{Tier(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}
