package chunk

import "strings"

// DefaultChunkSize is the character budget a chunk is allowed to grow to
// before the splitter closes it and starts a new one.
const DefaultChunkSize = 1000

// Split segments text into retrieval chunks on sentence boundaries.
//
// The text is split on ". " and sentences are greedily accumulated into a
// running buffer. When appending the next sentence would make the buffer
// reach or exceed chunkSize characters, the buffer is closed as a chunk
// and the sentence starts a new one. A single sentence longer than
// chunkSize is never split itself; it may push its chunk over the size
// bound. The final partial buffer is flushed as the last chunk if
// non-empty.
func Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := strings.Split(text, ". ")

	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len()+len(sentence) >= chunkSize {
			if closed := strings.TrimSpace(current.String()); closed != "" {
				chunks = append(chunks, closed)
			}
			current.Reset()
		}
		current.WriteString(sentence)
		current.WriteString(". ")
	}

	if closed := strings.TrimSpace(current.String()); closed != "" {
		chunks = append(chunks, closed)
	}

	return chunks
}
