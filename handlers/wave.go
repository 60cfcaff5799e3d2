package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// waveHeader is the canonical 44-byte RIFF/WAVE header.
type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

const (
	pcmAudioFormat     = 1
	requiredSampleRate = 16000
	requiredChannels   = 1
	requiredBitDepth   = 16
)

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}

	var header waveHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	return &header, nil
}

// validateWave checks the uploaded audio is in the format the STT providers
// are configured for. Frontends own any resampling.
func validateWave(data []byte) error {
	header, err := parseWaveHeader(data)
	if err != nil {
		return err
	}
	if header.AudioFormat != pcmAudioFormat {
		return fmt.Errorf("expected PCM audio, got format %d", header.AudioFormat)
	}
	if header.NumChannels != requiredChannels {
		return fmt.Errorf("expected mono audio, got %d channels", header.NumChannels)
	}
	if header.SampleRate != requiredSampleRate {
		return fmt.Errorf("expected %d Hz sample rate, got %d", requiredSampleRate, header.SampleRate)
	}
	if header.BitsPerSample != requiredBitDepth {
		return fmt.Errorf("expected %d-bit samples, got %d", requiredBitDepth, header.BitsPerSample)
	}
	return nil
}
