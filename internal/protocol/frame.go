package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/kasalink/kasalink/internal/codec"
)

// MaxFrameSize is the sanity bound on a declared frame length. Real device
// responses are a few KB at most; anything past this is a corrupt or
// hostile peer, not a big sysinfo.
const MaxFrameSize = 1 << 20

// lenPrefixSize is the size of the big-endian length prefix.
const lenPrefixSize = 4

// EncodeFrame obfuscates payload and prepends the 4-byte big-endian
// length prefix, returning the complete wire frame.
func EncodeFrame(payload []byte) []byte {
	ciphered := codec.Encrypt(payload)
	frame := make([]byte, lenPrefixSize+len(ciphered))
	binary.BigEndian.PutUint32(frame[:lenPrefixSize], uint32(len(ciphered)))
	copy(frame[lenPrefixSize:], ciphered)
	return frame
}

// WriteFrame encodes payload and writes the complete frame to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if _, err := w.Write(EncodeFrame(payload)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// ReadFrame reads exactly one frame from r and returns the deobfuscated
// payload. It fails with a KindFraming error if the declared length
// exceeds MaxFrameSize or the stream ends before the full payload
// arrives; partial frames are never returned. Socket-level failures such
// as timeouts pass through wrapped but unclassified, so the transport can
// report them as network errors.
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, lenPrefixSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, NewFramingError("", "stream ended before the length prefix", err)
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	declared := binary.BigEndian.Uint32(header)
	if declared > MaxFrameSize {
		return nil, NewFramingError("",
			fmt.Sprintf("declared length %d exceeds maximum %d", declared, MaxFrameSize), nil)
	}

	ciphered := make([]byte, declared)
	if _, err := io.ReadFull(r, ciphered); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, NewFramingError("",
				fmt.Sprintf("stream ended before %d declared bytes arrived", declared), err)
		}
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}

	return codec.Decrypt(ciphered), nil
}

// DecodeDatagram extracts the payload from a single UDP datagram. Framed
// datagrams (length prefix matching the remaining bytes) are handled like
// TCP frames; some firmware revisions reply with the bare obfuscated
// payload and no prefix, so anything else is decrypted whole.
func DecodeDatagram(datagram []byte) ([]byte, error) {
	if len(datagram) == 0 {
		return nil, NewFramingError("", "empty datagram", nil)
	}
	if len(datagram) > lenPrefixSize {
		declared := binary.BigEndian.Uint32(datagram[:lenPrefixSize])
		if int(declared) == len(datagram)-lenPrefixSize {
			return codec.Decrypt(datagram[lenPrefixSize:]), nil
		}
	}
	return codec.Decrypt(datagram), nil
}
