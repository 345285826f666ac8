package courtrecord

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical passthrough", raw: "01/15/2023", want: "01/15/2023"},
		{name: "single digit components", raw: "1/5/2023", want: "01/05/2023"},
		{name: "iso date", raw: "2023-01-15", want: "01/15/2023"},
		{name: "slash year first", raw: "2023/01/15", want: "01/15/2023"},
		{name: "dashed numeric", raw: "01-15-2023", want: "01/15/2023"},
		{name: "long month name", raw: "January 15, 2023", want: "01/15/2023"},
		{name: "short month name", raw: "Jan 15, 2023", want: "01/15/2023"},
		{name: "surrounding whitespace", raw: "  01/15/2023  ", want: "01/15/2023"},
		{name: "empty", raw: "", want: UnknownDate},
		{name: "unknown sentinel", raw: UnknownDate, want: UnknownDate},
		{name: "garbage", raw: "next tuesday", want: UnknownDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.raw); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	inputs := []string{"2023-01-15", "Jan 2, 2024", "garbage", ""}
	for _, raw := range inputs {
		once := NormalizeDate(raw)
		if twice := NormalizeDate(once); twice != once {
			t.Errorf("NormalizeDate not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "OPEN", want: StatusOpen},
		{raw: "Case Active", want: StatusOpen},
		{raw: "Pending Judgment", want: StatusOpen},
		{raw: "CLOSED", want: StatusClosed},
		{raw: "Disposed - Dismissed", want: StatusClosed},
		{raw: "case closed by judge", want: StatusClosed},
		{raw: "DECIDED", want: "Decided"},
		{raw: "on appeal", want: "On Appeal"},
		{raw: "", want: StatusUnknown},
		{raw: "   ", want: StatusUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.raw); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	inputs := []string{"OPEN", "Disposed", "Decided", ""}
	for _, raw := range inputs {
		once := NormalizeStatus(raw)
		if twice := NormalizeStatus(once); twice != once {
			t.Errorf("NormalizeStatus not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestIsOpenStatus(t *testing.T) {
	if !IsOpenStatus(StatusOpen) {
		t.Error("Open should count as open")
	}
	if !IsOpenStatus("active") {
		t.Error("active should count as open")
	}
	if IsOpenStatus(StatusClosed) || IsOpenStatus(StatusUnknown) || IsOpenStatus("Decided") {
		t.Error("non-open statuses must not count as open")
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  JOHN   SMITH \n vs.\t ACME  "); got != "JOHN SMITH vs. ACME" {
		t.Errorf("CleanText = %q", got)
	}
}
