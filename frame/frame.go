// Package frame contains functions for parsing FLAC encoded audio frames.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/coreflac/flac/internal/bits"
	"github.com/coreflac/flac/internal/hashutil/crc16"
)

// A Frame is an audio frame, consisting of a frame header and one subframe
// per channel.
type Frame struct {
	// Audio frame header.
	Header *Header
	// Audio subframes, one per channel.
	SubFrames []*SubFrame
}

// Parse reads and returns a new frame. The reader of a frame is only valid
// for the duration of the call; the underlying stream is consumed as each
// field is parsed. A frame consists of a header, one subframe per channel,
// zero-padding to byte alignment and a 16-bit CRC footer covering the
// entirety of the frame, excluding the footer itself.
//
// Frame format (pseudo code):
//
//	type FRAME struct {
//	   header    FRAME_HEADER
//	   subframes []SUBFRAME
//	   _         uint0 to uint7 // zero-padding to byte alignment.
//	   footer    uint16 // CRC-16 of the entire frame, excluding the footer.
//	}
//
// ref: https://www.xiph.org/flac/format.html#frame
func Parse(r io.Reader) (frame *Frame, err error) {
	// The running CRC-16 of the frame covers the header and the subframes,
	// as well as the padding; it excludes only the footer.
	h := crc16.NewIBM()
	hr := io.TeeReader(r, h)

	hdr, err := parseHeader(hr)
	if err != nil {
		return nil, err
	}
	frame = &Frame{Header: hdr}

	br := bits.NewReader(hr)
	nchannels := hdr.ChannelOrder.ChannelCount()
	for i := 0; i < nchannels; i++ {
		bps := uint(hdr.BitsPerSample)
		// Left/side, side/right and mid/side stereo decorrelation adds one
		// extra bit-per-sample to the side channel.
		switch {
		case hdr.ChannelOrder == ChannelLeftSide && i == 1:
			bps++
		case hdr.ChannelOrder == ChannelRightSide && i == 0:
			bps++
		case hdr.ChannelOrder == ChannelMidSide && i == 1:
			bps++
		}
		subframe, err := hdr.NewSubFrame(br, bps)
		if err != nil {
			return nil, err
		}
		frame.SubFrames = append(frame.SubFrames, subframe)
	}

	// Padding to byte alignment.
	br.Align()

	// 16 bits: CRC-16 footer.
	want := h.Sum16()
	var got uint16
	if err = binary.Read(r, binary.BigEndian, &got); err != nil {
		return nil, unexpected(err)
	}
	if got != want {
		return nil, fmt.Errorf("frame.Parse: CRC-16 checksum mismatch; expected 0x%04X, got 0x%04X", want, got)
	}

	frame.correlate()

	return frame, nil
}

// correlate reconstructs the left/right channel pair from the
// inter-channel decorrelation applied by the encoder, if any.
func (frame *Frame) correlate() {
	switch frame.Header.ChannelOrder {
	case ChannelLeftSide:
		// side = left - right  =>  right = left - side
		left := frame.SubFrames[0].Samples
		side := frame.SubFrames[1].Samples
		for i, l := range left {
			side[i] = l - side[i]
		}
	case ChannelRightSide:
		// side = left - right  =>  left = right + side
		side := frame.SubFrames[0].Samples
		right := frame.SubFrames[1].Samples
		for i, r := range right {
			side[i] += r
		}
	case ChannelMidSide:
		mid := frame.SubFrames[0].Samples
		side := frame.SubFrames[1].Samples
		for i := range mid {
			m := int64(mid[i])<<1 | int64(side[i])&1
			s := int64(side[i])
			mid[i] = Sample((m + s) / 2)
			side[i] = Sample((m - s) / 2)
		}
	}
}

// SampleNumber returns the absolute sample number of the first sample
// decoded by the frame.
func (frame *Frame) SampleNumber() uint64 {
	hdr := frame.Header
	if hdr.HasVariableSampleCount {
		return hdr.SampleNum
	}
	return uint64(hdr.FrameNum) * uint64(hdr.SampleCount)
}

// ErrUnsupportedBPS is returned by Hash when asked to checksum samples of an
// unsupported bit depth.
var ErrUnsupportedBPS = errors.New("frame.Frame.Hash: unsupported bits-per-sample")

// Hash writes the audio samples of the frame, interleaved and little-endian
// encoded, to the provided hash, as used by the Decode-MD5 audio stream
// invariant.
func (frame *Frame) Hash(md5sum hash.Hash) error {
	bps := frame.Header.BitsPerSample
	if len(frame.SubFrames) == 0 {
		return nil
	}
	nsamples := len(frame.SubFrames[0].Samples)
	buf := make([]byte, 4)
	for i := 0; i < nsamples; i++ {
		for _, subframe := range frame.SubFrames {
			sample := subframe.Samples[i]
			switch bps {
			case 8:
				buf[0] = byte(sample)
				if _, err := md5sum.Write(buf[:1]); err != nil {
					return err
				}
			case 16:
				buf[0] = byte(sample)
				buf[1] = byte(sample >> 8)
				if _, err := md5sum.Write(buf[:2]); err != nil {
					return err
				}
			case 24:
				buf[0] = byte(sample)
				buf[1] = byte(sample >> 8)
				buf[2] = byte(sample >> 16)
				if _, err := md5sum.Write(buf[:3]); err != nil {
					return err
				}
			default:
				return ErrUnsupportedBPS
			}
		}
	}
	return nil
}
