package network

import "strings"

// SentenceSplitter accumulates transport reads and emits complete CR/LF
// terminated lines, so the codec downstream only ever sees whole sentences.
// A trailing partial line is held until its terminator arrives. UDP
// datagrams normally carry whole sentences, but transceivers are free to
// batch several per datagram or split across two.
type SentenceSplitter struct {
	partial string
}

// Feed appends transport data and returns the complete lines now
// available, terminators stripped and blank lines dropped.
func (s *SentenceSplitter) Feed(data []byte) []string {
	buf := s.partial + string(data)
	var lines []string
	for {
		i := strings.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(buf[:i], "\r")
		buf = buf[i+1:]
		if line != "" {
			lines = append(lines, line)
		}
	}
	s.partial = buf
	return lines
}

// Flush returns any held partial line and resets the splitter. Useful when
// a peer omits the final terminator before going quiet.
func (s *SentenceSplitter) Flush() string {
	line := strings.TrimRight(s.partial, "\r")
	s.partial = ""
	return line
}
