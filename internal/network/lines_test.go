package network

import "testing"

func TestSentenceSplitter(t *testing.T) {
	tests := []struct {
		name     string
		feeds    []string
		expected [][]string
	}{
		{
			name:     "single terminated sentence",
			feeds:    []string{"!AIABB,01,01,0,,1,,0,4SAF,0*7D\r\n"},
			expected: [][]string{{"!AIABB,01,01,0,,1,,0,4SAF,0*7D"}},
		},
		{
			name:  "two sentences in one datagram",
			feeds: []string{"!AIABB,1*00\r\n!AIVDM,2*00\r\n"},
			expected: [][]string{
				{"!AIABB,1*00", "!AIVDM,2*00"},
			},
		},
		{
			name:  "sentence split across datagrams",
			feeds: []string{"!AIABB,01,01", ",0,,1,,0,4SAF,0*7D\r\n"},
			expected: [][]string{
				nil,
				{"!AIABB,01,01,0,,1,,0,4SAF,0*7D"},
			},
		},
		{
			name:     "bare LF terminator",
			feeds:    []string{"!AIABB,1*00\n"},
			expected: [][]string{{"!AIABB,1*00"}},
		},
		{
			name:     "blank lines dropped",
			feeds:    []string{"\r\n\r\n!AIABB,1*00\r\n\r\n"},
			expected: [][]string{{"!AIABB,1*00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SentenceSplitter
			for i, feed := range tt.feeds {
				got := s.Feed([]byte(feed))
				want := tt.expected[i]
				if len(got) != len(want) {
					t.Fatalf("feed %d: got %v, want %v", i, got, want)
				}
				for j := range want {
					if got[j] != want[j] {
						t.Errorf("feed %d line %d = %q, want %q", i, j, got[j], want[j])
					}
				}
			}
		})
	}
}

func TestSentenceSplitterFlush(t *testing.T) {
	var s SentenceSplitter
	if lines := s.Feed([]byte("!AIABB,1*00")); len(lines) != 0 {
		t.Fatalf("unterminated line emitted early: %v", lines)
	}
	if got := s.Flush(); got != "!AIABB,1*00" {
		t.Errorf("Flush() = %q, want %q", got, "!AIABB,1*00")
	}
	if got := s.Flush(); got != "" {
		t.Errorf("second Flush() = %q, want empty", got)
	}
}
