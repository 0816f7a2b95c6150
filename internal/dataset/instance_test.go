package dataset

import "testing"

func TestParseInstanceID(t *testing.T) {
	tests := []struct {
		name       string
		instanceID string
		repo       string
		wantRepo   string
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "simple owner__repo-number",
			instanceID: "sympy__sympy-22914",
			wantRepo:   "sympy/sympy",
			wantNumber: 22914,
		},
		{
			name:       "hyphenated repo name",
			instanceID: "scikit-learn__scikit-learn-13241",
			wantRepo:   "scikit-learn/scikit-learn",
			wantNumber: 13241,
		},
		{
			name:       "explicit repo with number suffix",
			instanceID: "acme__widget-42",
			repo:       "acme/widget",
			wantRepo:   "acme/widget",
			wantNumber: 42,
		},
		{
			name:       "explicit repo overrides encoded repo",
			instanceID: "whatever-7",
			repo:       "octo/cat",
			wantRepo:   "octo/cat",
			wantNumber: 7,
		},
		{
			name:       "missing separator",
			instanceID: "sympy-22914",
			wantErr:    true,
		},
		{
			name:       "missing number",
			instanceID: "sympy__sympy",
			wantErr:    true,
		},
		{
			name:       "non-numeric suffix",
			instanceID: "sympy__sympy-abc",
			wantErr:    true,
		},
		{
			name:       "empty",
			instanceID: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, number, err := ParseInstanceID(tt.instanceID, tt.repo)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseInstanceID(%q, %q) expected error, got (%q, %d)",
						tt.instanceID, tt.repo, repo, number)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInstanceID(%q, %q) returned error: %v", tt.instanceID, tt.repo, err)
			}
			if repo != tt.wantRepo || number != tt.wantNumber {
				t.Errorf("ParseInstanceID(%q, %q) = (%q, %d), want (%q, %d)",
					tt.instanceID, tt.repo, repo, number, tt.wantRepo, tt.wantNumber)
			}
		})
	}
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := SplitRepo("sympy/sympy")
	if err != nil {
		t.Fatalf("SplitRepo returned error: %v", err)
	}
	if owner != "sympy" || name != "sympy" {
		t.Errorf("SplitRepo = (%q, %q), want (sympy, sympy)", owner, name)
	}

	for _, bad := range []string{"", "noslash", "/repo", "owner/"} {
		if _, _, err := SplitRepo(bad); err == nil {
			t.Errorf("SplitRepo(%q) expected error", bad)
		}
	}
}
