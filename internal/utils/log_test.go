package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "disabled preview",
			input:  `{"selected": true, "feedback": "strong Go background"}`,
			limit:  0,
			expect: "",
		},
		{
			name:   "short model reply kept whole",
			input:  `{"selected": false}`,
			limit:  64,
			expect: `{"selected": false}`,
		},
		{
			name:   "long feedback cut with ellipsis",
			input:  "Candidate lacks production Kubernetes experience",
			limit:  9,
			expect: "Candidate...",
		},
		{
			name:   "resume text with padding",
			input:  "\n\n  Jane Doe, Backend Engineer  \n",
			limit:  8,
			expect: "Jane Doe...",
		},
		{
			name:   "multi-line prompt flattened",
			input:  "Role Requirements:\n  - Go\n  - SQL\n\nResume:\n\tbuilt payment APIs",
			limit:  200,
			expect: "Role Requirements: - Go - SQL Resume: built payment APIs",
		},
		{
			name:   "cuts on runes not bytes",
			input:  "Résumé reçu",
			limit:  6,
			expect: "Résumé...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
