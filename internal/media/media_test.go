package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0}
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	wavHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Kind
		ok       bool
	}{
		{"jpg", "cat.jpg", KindImage, true},
		{"upper case jpeg", "CAT.JPEG", KindImage, true},
		{"png", "level1/dog.png", KindImage, true},
		{"webp", "x.webp", KindImage, true},
		{"gif", "x.GIF", KindImage, true},
		{"mp3", "cat.mp3", KindAudio, true},
		{"wav", "cat.WAV", KindAudio, true},
		{"ogg", "cat.ogg", KindAudio, true},
		{"m4a", "cat.m4a", KindAudio, true},
		{"text file", "notes.txt", "", false},
		{"no extension", "README", "", false},
		{"bmp is not supported", "cat.bmp", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestIsBackgroundExt(t *testing.T) {
	assert.True(t, IsBackgroundExt("background.JPG"))
	assert.True(t, IsBackgroundExt("bg.webp"))
	assert.True(t, IsBackgroundExt("bg.png"))
	assert.False(t, IsBackgroundExt("bg.gif"))
	assert.False(t, IsBackgroundExt("bg.mp3"))
}

func TestDetector_Detect(t *testing.T) {
	sniffing := NewDetector(true)
	byName := NewDetector(false)

	t.Run("content wins over extension when sniffing", func(t *testing.T) {
		assert.Equal(t, "image/png", sniffing.Detect(pngHeader, "cat.jpg", KindImage))
		assert.Equal(t, "image/gif", sniffing.Detect(gifHeader, "cat.png", KindImage))
	})

	t.Run("extension only when not sniffing", func(t *testing.T) {
		assert.Equal(t, "image/jpeg", byName.Detect(pngHeader, "cat.jpg", KindImage))
		assert.Equal(t, "audio/ogg", byName.Detect(nil, "cat.OGG", KindAudio))
	})

	t.Run("content of the wrong kind falls back to extension", func(t *testing.T) {
		assert.Equal(t, "audio/mpeg", sniffing.Detect(pngHeader, "cat.mp3", KindAudio))
	})

	t.Run("wav content", func(t *testing.T) {
		detected := sniffing.Detect(wavHeader, "cat.bin", KindAudio)
		assert.Contains(t, []string{"audio/wav", "audio/x-wav"}, detected)
	})

	t.Run("unknown everything uses defaults", func(t *testing.T) {
		assert.Equal(t, DefaultImageType, sniffing.Detect([]byte("plain text"), "cat", KindImage))
		assert.Equal(t, DefaultAudioType, sniffing.Detect([]byte("plain text"), "cat", KindAudio))
		assert.Equal(t, DefaultAudioType, byName.Detect(nil, "", KindAudio))
	})
}

func TestDetector_Normalize(t *testing.T) {
	d := NewDetector(true)

	assert.Equal(t, "image/webp", d.Normalize("Image/WebP", nil, "", KindImage))
	assert.Equal(t, "audio/ogg", d.Normalize("audio/ogg; codecs=opus", nil, "", KindAudio))
	assert.Equal(t, "image/png", d.Normalize("application/octet-stream", pngHeader, "", KindImage))
	assert.Equal(t, "image/jpeg", d.Normalize("", nil, "", KindImage))
}
