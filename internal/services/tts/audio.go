package tts

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"scribe/internal/artifact"
)

// writeAudioFile persists synthesized audio under the audio directory and
// returns its absolute path.
func writeAudioFile(dir, itemID, suffix, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", itemID, suffix, ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

func newAudioArtifact(path, format string, size int64, podcast *artifact.Podcast) *artifact.Audio {
	audio := &artifact.Audio{
		AudioURL: path,
		Format:   format,
		Size:     size,
	}
	if podcast != nil {
		audio.Transcript = podcast.Script
		audio.Duration = podcast.Duration
	}
	if audio.Duration <= 0 {
		audio.Duration = artifact.DefaultPodcastDuration
	}
	return audio
}

// pcmToWAV wraps raw 16-bit little-endian PCM samples in a WAV container.
func pcmToWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, bitsPerSample)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf
}
