package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/coreflac/flac/internal/bits"
	"github.com/coreflac/flac/internal/hashutil/crc8"
	"github.com/coreflac/flac/internal/utf8"
)

// A Header is a frame header, which contains information about the frame
// like the block size, sample rate, number of channels, etc, and an 8-bit
// CRC.
type Header struct {
	// Blocking strategy:
	//    false: fixed-sample count stream.
	//    true:  variable-sample count stream.
	HasVariableSampleCount bool
	// Sample count is the number of samples in any of a block's subblocks.
	SampleCount uint16
	// Sample rate in Hz. A 0 value means the sample rate is not stored in the
	// header and should be looked up from the stream's StreamInfo block.
	SampleRate uint32
	// Channel order specifies the order in which channels are stored in the
	// frame.
	ChannelOrder ChannelOrder
	// Sample size in bits-per-sample. A 0 value means the sample size is not
	// stored in the header and should be looked up from the stream's
	// StreamInfo block.
	BitsPerSample uint8
	// Sample number is the frame's starting sample number, used by
	// variable-sample count streams.
	SampleNum uint64
	// Frame number, used by fixed-sample count streams. The frame's starting
	// sample number is the frame number times the sample count.
	FrameNum uint32
}

// SyncCode is the 14-bit sync code that marks the beginning of a frame
// header. Bit representation: 11111111111110.
const SyncCode = 0x3FFE

// ChannelOrder specifies the order in which channels are stored.
type ChannelOrder uint8

// Channel assignments. The following abbreviations are used:
//
//	L:   left
//	R:   right
//	C:   center
//	Lfe: low-frequency effects
//	Ls:  left surround
//	Rs:  right surround
//	Cs:  center surround
//	Sl:  side left
//	Sr:  side right
//
// The first 6 channel constants follow the SMPTE/ITU-R channel order:
//
//	L R C Lfe Ls Rs
const (
	ChannelMono           ChannelOrder = iota // 1 channel:  mono.
	ChannelLR                                 // 2 channels: left, right
	ChannelLRC                                // 3 channels: left, right, center
	ChannelLRLsRs                             // 4 channels: left, right, left surround, right surround
	ChannelLRCLsRs                            // 5 channels: left, right, center, left surround, right surround
	ChannelLRCLfeLsRs                         // 6 channels: left, right, center, low-frequency effects, left surround, right surround
	ChannelLRCLfeCsSlSr                       // 7 channels: left, right, center, LFE, center surround, side left, side right
	ChannelLRCLfeLsRsSlSr                     // 8 channels: left, right, center, LFE, left surround, right surround, side left, side right
	ChannelLeftSide                           // left/side stereo:  left, side (difference)
	ChannelRightSide                          // side/right stereo: side (difference), right
	ChannelMidSide                            // mid/side stereo:   mid (average), side (difference)
)

// channelCount maps from a channel assignment to its number of channels.
var channelCount = map[ChannelOrder]int{
	ChannelMono:            1,
	ChannelLR:              2,
	ChannelLRC:             3,
	ChannelLRLsRs:          4,
	ChannelLRCLsRs:         5,
	ChannelLRCLfeLsRs:      6,
	ChannelLRCLfeCsSlSr:    7,
	ChannelLRCLfeLsRsSlSr:  8,
	ChannelLeftSide:        2,
	ChannelRightSide:       2,
	ChannelMidSide:         2,
}

// ChannelCount returns the number of channels used by the provided channel
// order.
func (order ChannelOrder) ChannelCount() int {
	return channelCount[order]
}

// parseHeader reads and parses the header of an audio frame. hr must add all
// read bytes to the frame's running CRC-16 footer checksum.
func parseHeader(hr io.Reader) (hdr *Header, err error) {
	// Create a CRC-8 hash reader which adds the bytes of the header to a
	// running hash, used to verify the header checksum at the end.
	h := crc8.NewATM()
	cr := io.TeeReader(hr, h)
	br := bits.NewReader(cr)

	// 14 bits: sync code.
	x, err := br.Read(14)
	if err != nil {
		// This is the only place an audio frame may return io.EOF, signaling
		// a graceful end of the FLAC stream.
		return nil, err
	}
	if x != SyncCode {
		return nil, fmt.Errorf("frame.parseHeader: invalid sync code; expected %014b, got %014b", SyncCode, x)
	}

	// 1 bit: reserved.
	x, err = br.Read(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if x != 0 {
		return nil, errors.New("frame.parseHeader: non-zero reserved bit")
	}

	hdr = new(Header)

	// 1 bit: blocking strategy.
	x, err = br.Read(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if x != 0 {
		hdr.HasVariableSampleCount = true
	}

	// 4 bits: sample count spec; parsing is deferred to the end of the
	// header, once the remaining fields have been consumed.
	sampleCountSpec, err := br.Read(4)
	if err != nil {
		return nil, unexpected(err)
	}

	// 4 bits: sample rate spec; parsing is deferred to the end of the
	// header.
	sampleRateSpec, err := br.Read(4)
	if err != nil {
		return nil, unexpected(err)
	}

	// 4 bits: channel assignment.
	//    0000-0111: (number of independent channels)-1, following
	//               SMPTE/ITU-R channel order where defined.
	//    1000: left/side stereo:  left, side (difference)
	//    1001: side/right stereo: side (difference), right
	//    1010: mid/side stereo:   mid (average), side (difference)
	//    1011-1111: reserved
	x, err = br.Read(4)
	if err != nil {
		return nil, unexpected(err)
	}
	if x > 10 {
		return nil, fmt.Errorf("frame.parseHeader: reserved channel assignment bit pattern %04b", x)
	}
	hdr.ChannelOrder = ChannelOrder(x)

	// 3 bits: sample size.
	//    000: get from StreamInfo.
	//    001: 8 bits per sample.
	//    010: 12 bits per sample.
	//    011: reserved.
	//    100: 16 bits per sample.
	//    101: 20 bits per sample.
	//    110: 24 bits per sample.
	//    111: reserved.
	x, err = br.Read(3)
	if err != nil {
		return nil, unexpected(err)
	}
	switch x {
	case 0:
		// Sample size not stored; caller must look it up in StreamInfo.
	case 1:
		hdr.BitsPerSample = 8
	case 2:
		hdr.BitsPerSample = 12
	case 3, 7:
		return nil, fmt.Errorf("frame.parseHeader: reserved sample size bit pattern %03b", x)
	case 4:
		hdr.BitsPerSample = 16
	case 5:
		hdr.BitsPerSample = 20
	case 6:
		hdr.BitsPerSample = 24
	}

	// 1 bit: reserved.
	x, err = br.Read(1)
	if err != nil {
		return nil, unexpected(err)
	}
	if x != 0 {
		return nil, errors.New("frame.parseHeader: non-zero reserved bit")
	}

	// "UTF-8" coded frame number or sample number.
	num, err := utf8.Decode(cr)
	if err != nil {
		return nil, unexpected(err)
	}
	if hdr.HasVariableSampleCount {
		hdr.SampleNum = num
	} else {
		hdr.FrameNum = uint32(num)
	}

	// Block size (sample count).
	//    0000: reserved.
	//    0001: 192 samples.
	//    0010-0101: 576 * 2^(n-2) samples.
	//    0110: get 8 bit (sample count)-1 from the end of the header.
	//    0111: get 16 bit (sample count)-1 from the end of the header.
	//    1000-1111: 256 * 2^(n-8) samples.
	switch n := sampleCountSpec; {
	case n == 0:
		return nil, errors.New("frame.parseHeader: reserved block size bit pattern 0000")
	case n == 1:
		hdr.SampleCount = 192
	case n >= 2 && n <= 5:
		hdr.SampleCount = 576 * (1 << (n - 2))
	case n == 6:
		x, err := br.Read(8)
		if err != nil {
			return nil, unexpected(err)
		}
		hdr.SampleCount = uint16(x) + 1
	case n == 7:
		x, err := br.Read(16)
		if err != nil {
			return nil, unexpected(err)
		}
		hdr.SampleCount = uint16(x) + 1
	default:
		hdr.SampleCount = 256 * (1 << (n - 8))
	}

	// Sample rate.
	//    0000: get from StreamInfo.
	//    0001: 88.2 kHz.
	//    0010: 176.4 kHz.
	//    0011: 192 kHz.
	//    0100: 8 kHz.
	//    0101: 16 kHz.
	//    0110: 22.05 kHz.
	//    0111: 24 kHz.
	//    1000: 32 kHz.
	//    1001: 44.1 kHz.
	//    1010: 48 kHz.
	//    1011: 96 kHz.
	//    1100: get 8 bit sample rate (in kHz) from the end of the header.
	//    1101: get 16 bit sample rate (in Hz) from the end of the header.
	//    1110: get 16 bit sample rate (in daHz) from the end of the header.
	//    1111: invalid.
	switch sampleRateSpec {
	case 0:
		// Sample rate not stored; caller must look it up in StreamInfo.
	case 1:
		hdr.SampleRate = 88200
	case 2:
		hdr.SampleRate = 176400
	case 3:
		hdr.SampleRate = 192000
	case 4:
		hdr.SampleRate = 8000
	case 5:
		hdr.SampleRate = 16000
	case 6:
		hdr.SampleRate = 22050
	case 7:
		hdr.SampleRate = 24000
	case 8:
		hdr.SampleRate = 32000
	case 9:
		hdr.SampleRate = 44100
	case 10:
		hdr.SampleRate = 48000
	case 11:
		hdr.SampleRate = 96000
	case 12:
		x, err := br.Read(8)
		if err != nil {
			return nil, unexpected(err)
		}
		hdr.SampleRate = uint32(x) * 1000
	case 13:
		x, err := br.Read(16)
		if err != nil {
			return nil, unexpected(err)
		}
		hdr.SampleRate = uint32(x)
	case 14:
		x, err := br.Read(16)
		if err != nil {
			return nil, unexpected(err)
		}
		hdr.SampleRate = uint32(x) * 10
	case 15:
		return nil, errors.New("frame.parseHeader: invalid sample rate bit pattern 1111")
	}

	// 1 byte: CRC-8 checksum.
	var want uint8
	if err = binary.Read(hr, binary.BigEndian, &want); err != nil {
		return nil, unexpected(err)
	}
	got := h.Sum8()
	if want != got {
		return nil, fmt.Errorf("frame.parseHeader: CRC-8 checksum mismatch; expected 0x%02X, got 0x%02X", want, got)
	}

	return hdr, nil
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF, and returns err
// otherwise.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
