package status

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/spotctl/internal/music"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{9000, "0:09"},
		{59999, "0:59"},
		{65000, "1:05"},
		{600000, "10:00"},
		{3723000, "62:03"},
		{-5000, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTime(tt.ms); got != tt.want {
				t.Errorf("FormatTime(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		position   int64
		duration   int64
		width      int
		wantFilled int
	}{
		{"start", 0, 200000, 30, 0},
		{"half", 100000, 200000, 30, 15},
		{"floor", 1000, 3000, 10, 3},
		{"end", 200000, 200000, 30, 30},
		{"past end clamps", 250000, 200000, 30, 30},
		{"negative position clamps", -100, 200000, 30, 0},
		{"zero duration", 5000, 0, 30, 0},
		{"negative duration", 5000, -1, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressBar(tt.position, tt.duration, tt.width)
			want := strings.Repeat("█", tt.wantFilled) + strings.Repeat("░", tt.width-tt.wantFilled)
			if got != want {
				t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tt.position, tt.duration, tt.width, got, want)
			}
			if n := len([]rune(got)); n != tt.width {
				t.Errorf("bar has %d cells, want %d", n, tt.width)
			}
		})
	}
}

func TestProgressBar_ZeroWidth(t *testing.T) {
	if got := ProgressBar(1, 2, 0); got != "" {
		t.Errorf("ProgressBar with width 0 = %q, want empty", got)
	}
}

func TestRender(t *testing.T) {
	track := &music.Track{
		Name:     "Paranoid Android",
		Artist:   "Radiohead",
		Album:    "OK Computer",
		Duration: 387 * time.Second,
	}

	t.Run("playing", func(t *testing.T) {
		pb := &music.Playback{State: music.StatePlaying, Position: 65 * time.Second, Volume: 70}
		lines := strings.Split(stripANSI(Render(track, pb)), "\n")
		if len(lines) != 3 {
			t.Fatalf("Render() returned %d lines, want 3: %q", len(lines), lines)
		}
		if lines[0] != "Playing" {
			t.Errorf("state line = %q, want %q", lines[0], "Playing")
		}
		if lines[1] != "Paranoid Android - Radiohead (OK Computer)" {
			t.Errorf("summary line = %q", lines[1])
		}
		wantProgress := "1:05 " + ProgressBar(65000, 387000, BarWidth) + " 6:27"
		if lines[2] != wantProgress {
			t.Errorf("progress line = %q, want %q", lines[2], wantProgress)
		}
	})

	t.Run("paused", func(t *testing.T) {
		pb := &music.Playback{State: music.StatePaused}
		out := stripANSI(Render(track, pb))
		if !strings.HasPrefix(out, "Paused\n") {
			t.Errorf("Render() = %q, want Paused state line", out)
		}
		if !strings.Contains(out, "0:00 ") {
			t.Errorf("Render() = %q, want elapsed 0:00", out)
		}
	})

	t.Run("stopped", func(t *testing.T) {
		pb := &music.Playback{State: music.StateStopped}
		if got := stripANSI(Render(track, pb)); got != "Stopped\nNothing playing" {
			t.Errorf("Render() = %q", got)
		}
	})

	t.Run("nil playback", func(t *testing.T) {
		if got := stripANSI(Render(track, nil)); got != "Stopped\nNothing playing" {
			t.Errorf("Render() = %q", got)
		}
	})

	t.Run("long summary truncated", func(t *testing.T) {
		long := &music.Track{
			Name:     strings.Repeat("Very Long Title ", 10),
			Artist:   "Someone",
			Duration: time.Minute,
		}
		pb := &music.Playback{State: music.StatePlaying}
		lines := strings.Split(stripANSI(Render(long, pb)), "\n")
		if w := runewidth.StringWidth(lines[1]); w > SummaryWidth {
			t.Errorf("summary width = %d, want <= %d", w, SummaryWidth)
		}
		if !strings.HasSuffix(lines[1], "...") {
			t.Errorf("summary %q should end in an ellipsis", lines[1])
		}
	})
}

func TestRender_NoTrackKeepsLiveState(t *testing.T) {
	emptyBar := ProgressBar(0, 0, BarWidth)
	tests := []struct {
		name string
		pb   *music.Playback
		want string
	}{
		{
			name: "playing",
			pb:   &music.Playback{State: music.StatePlaying, Position: 5 * time.Second},
			want: "Playing\nUnknown track\n0:05 " + emptyBar + " -:--",
		},
		{
			name: "paused",
			pb:   &music.Playback{State: music.StatePaused, Position: 70 * time.Second},
			want: "Paused\nUnknown track\n1:10 " + emptyBar + " -:--",
		},
		{
			name: "stopped",
			pb:   &music.Playback{State: music.StateStopped},
			want: "Stopped\nNothing playing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripANSI(Render(nil, tt.pb)); got != tt.want {
				t.Errorf("Render(nil, %+v) = %q, want %q", *tt.pb, got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		track music.Track
		want  string
	}{
		{"full", music.Track{Name: "Song", Artist: "Band", Album: "Record"}, "Song - Band (Record)"},
		{"no album", music.Track{Name: "Song", Artist: "Band"}, "Song - Band"},
		{"name only", music.Track{Name: "Song"}, "Song"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(&tt.track); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"no limit when width is 0", "Hello", 0, "Hello"},
		{"short text unchanged", "Hi", 10, "Hi"},
		{"exact width unchanged", "Hello", 5, "Hello"},
		{"truncate long text with ellipsis", "This is a very long string that needs truncation", 20, "This is a very lo..."},
		{"truncate emoji text", "🎵 This is a very long song title", 15, "🎵 This is a..."},
		{"truncate unicode text", "日本語とても長いテキスト", 10, "日本語..."},
		{"width smaller than ellipsis", "Hello", 2, ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.width); got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}
