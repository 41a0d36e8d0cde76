package embeddings

// Chunk splits text into pieces of at most size bytes, never inside a UTF-8
// sequence.
func Chunk(text string, size int) []string {
	if size <= 0 {
		return []string{text}
	}
	var chunks []string
	for len(text) > size {
		cut := size
		for cut > 0 && !runeStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}

func runeStart(b byte) bool { return b&0xC0 != 0x80 }
