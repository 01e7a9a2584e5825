package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// PNGSignature is the magic prefix of a PNG file.
var PNGSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// PNGBytes returns size bytes that sniff as image/png. Sizes smaller than the
// signature return the bare signature.
func PNGBytes(size int) []byte {
	if size < len(PNGSignature) {
		size = len(PNGSignature)
	}
	data := make([]byte, size)
	copy(data, PNGSignature)
	for i := len(PNGSignature); i < size; i++ {
		data[i] = 0x42
	}
	return data
}

// WriteImage writes a PNG-sniffable file of the requested size and returns its path.
func WriteImage(t testing.TB, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, PNGBytes(size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
