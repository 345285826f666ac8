package courts

import (
	"context"
	"testing"
	"time"
)

func TestRandomFingerprintFromPools(t *testing.T) {
	for i := 0; i < 50; i++ {
		fp := RandomFingerprint()
		viewportOK := false
		for _, v := range viewportPool {
			if fp.Width == v.Width && fp.Height == v.Height {
				viewportOK = true
			}
		}
		if !viewportOK {
			t.Fatalf("viewport %dx%d not from pool", fp.Width, fp.Height)
		}
		uaOK := false
		for _, ua := range userAgentPool {
			if fp.UserAgent == ua {
				uaOK = true
			}
		}
		if !uaOK {
			t.Fatalf("user agent %q not from pool", fp.UserAgent)
		}
	}
}

func TestDetectChallengeContent(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  bool
	}{
		{name: "interstitial title", title: "Just a moment...", body: "", want: true},
		{name: "browser check phrase", title: "Search", body: "Checking your browser before accessing the site", want: true},
		{name: "human verification phrase", title: "Search", body: "Please verify you are human to continue", want: true},
		{name: "normal results page", title: "Case Search Results", body: "Showing 12 cases", want: false},
		{name: "empty page", title: "", body: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectChallengeContent(tt.title, tt.body); got != tt.want {
				t.Errorf("DetectChallengeContent(%q, %q) = %v, want %v", tt.title, tt.body, got, tt.want)
			}
		})
	}
}

func TestPauseBounds(t *testing.T) {
	start := time.Now()
	if err := Pause(context.Background(), 5*time.Millisecond, 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("pause returned too early: %v", elapsed)
	}
}

func TestPauseHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Pause(ctx, time.Hour, 2*time.Hour); err == nil {
		t.Error("expected context error")
	}
}
