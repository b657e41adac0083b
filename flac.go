// Package flac provides access to FLAC (Free Lossless Audio Codec) streams.
//
// A FLAC stream starts with the four byte magic "fLaC", followed by the
// mandatory StreamInfo metadata block, zero or more additional metadata
// blocks, and finally a sequence of one or more audio frames. Call New,
// NewSeek, Open or ParseFile to obtain a Stream, and repeatedly call
// Stream.Next (or Stream.ParseNext) to pull frames from it one at a time.
package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/coreflac/flac/frame"
	"github.com/coreflac/flac/internal/bufseekio"
	"github.com/coreflac/flac/meta"
)

// flacSignature marks the beginning of a FLAC stream.
var flacSignature = []byte("fLaC")

// id3Signature marks the beginning of an ID3v2 tag, which some encoders
// prepend to FLAC streams despite the format not calling for it.
var id3Signature = []byte("ID3")

// A Stream is a pull-based decoder for a FLAC bitstream; it parses metadata
// blocks up front and yields audio frames to the caller one at a time
// through Next and ParseNext.
type Stream struct {
	// StreamInfo metadata block, present in every valid FLAC stream.
	Info *meta.StreamInfo
	// Metadata blocks following the StreamInfo block, in stream order; the
	// StreamInfo block itself is only exposed through Info.
	Blocks []*meta.Block

	// seekTable holds the points of the explicit SeekTable metadata block,
	// if present; otherwise it is populated lazily by Seek.
	seekTable *meta.SeekTable
	// seekTableSize caps the number of seek points synthesized by Seek when
	// no explicit SeekTable block is present.
	seekTableSize int

	// dataStart is the offset of the first audio frame, used as the origin
	// of seek-point byte offsets.
	dataStart int64
	// curSampleNum is the absolute sample number immediately following the
	// most recently parsed frame; the reference point for a whence-relative
	// Seek with io.SeekCurrent.
	curSampleNum uint64

	// Underlying io.Reader of the FLAC stream, and an optional io.Closer
	// that backs it (set when the stream was opened from a file path).
	r io.Reader
	c io.Closer
}

// defaultSeekTableSize is the number of seek points generated by a linear
// scan when the stream has no explicit SeekTable metadata block.
const defaultSeekTableSize = 100

// ErrNoSeeker is returned by Seek when the stream's underlying io.Reader
// does not implement io.Seeker.
var ErrNoSeeker = errors.New("flac.Stream.Seek: underlying io.Reader is not an io.Seeker")

// ErrNoSeekTable is returned by Seek when no seek table could be produced
// for the stream, explicit or synthesized.
var ErrNoSeekTable = errors.New("flac.Stream.Seek: no seek table present")

// New creates a new Stream for accessing the audio samples of r. It reads
// and parses the FLAC signature and metadata blocks of r, which must
// precede the audio frames.
func New(r io.Reader) (*Stream, error) {
	s := &Stream{r: r}
	if err := s.parseStreamInfo(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSeek creates a new Stream for accessing the audio samples of rs,
// wrapping it in a buffered reader that retains io.Seeker, so that Seek may
// later be used.
func NewSeek(rs io.ReadSeeker) (*Stream, error) {
	br := bufseekio.NewReadSeeker(rs)
	return New(br)
}

// Parse creates a new Stream for accessing the audio samples of r. It is
// equivalent to New.
func Parse(r io.Reader) (*Stream, error) {
	return New(r)
}

// Open creates a new Stream for accessing the audio samples of the FLAC
// file at path. Close must be called to close the underlying file handle
// once done.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "flac.Open: unable to open file %q", path)
	}
	s, err := NewSeek(f)
	if err != nil {
		f.Close()
		return nil, pkgerrors.Wrapf(err, "flac.Open: unable to parse file %q", path)
	}
	s.c = f
	return s, nil
}

// ParseFile creates a new Stream for accessing the audio samples of the
// FLAC file at path. It is equivalent to Open.
func ParseFile(path string) (*Stream, error) {
	return Open(path)
}

// Close closes the underlying io.Closer of the stream, if any (i.e. if the
// stream was created by Open or ParseFile).
func (s *Stream) Close() error {
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}

// parseStreamInfo reads the FLAC signature (optionally preceded by a
// skipped ID3v2 tag) and the sequence of metadata blocks, populating
// Info and Blocks.
func (s *Stream) parseStreamInfo() error {
	br := s.r

	// Some non-conformant encoders prepend an ID3v2 tag before the FLAC
	// signature; skip over it if present.
	peek := make([]byte, 3)
	if _, err := io.ReadFull(br, peek); err != nil {
		return unexpected(err)
	}
	var magic []byte
	if bytes.Equal(peek, id3Signature) {
		if err := skipID3v2(br); err != nil {
			return err
		}
		magic = make([]byte, 4)
		if _, err := io.ReadFull(br, magic); err != nil {
			return unexpected(err)
		}
	} else {
		rest := make([]byte, 1)
		if _, err := io.ReadFull(br, rest); err != nil {
			return unexpected(err)
		}
		magic = append(peek, rest...)
	}
	if !bytes.Equal(magic, flacSignature) {
		return fmt.Errorf("flac.parseStreamInfo: invalid magic; expected %q, got %q", flacSignature, magic)
	}

	isFirst := true
	for {
		block, err := meta.New(br)
		if err != nil {
			return unexpected(err)
		}
		if isFirst {
			if block.Type != meta.TypeStreamInfo {
				return fmt.Errorf("flac.parseStreamInfo: first metadata block is %v, expected stream info", block.Type)
			}
			isFirst = false
		}
		if err := block.Parse(); err != nil {
			// Blocks of a reserved type have no defined body; skip them.
			if err != meta.ErrReservedType {
				return err
			}
			if err := block.Skip(); err != nil {
				return unexpected(err)
			}
		}
		switch body := block.Body.(type) {
		case *meta.StreamInfo:
			if s.Info != nil {
				return errors.New("flac.parseStreamInfo: multiple stream info blocks present")
			}
			s.Info = body
		case *meta.SeekTable:
			s.seekTable = body
		}
		if block.Type != meta.TypeStreamInfo {
			s.Blocks = append(s.Blocks, block)
		}
		if block.IsLast {
			break
		}
	}

	if s.Info == nil {
		return errors.New("flac.parseStreamInfo: no stream info block present")
	}

	if seeker, ok := br.(io.Seeker); ok {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err == nil {
			s.dataStart = pos
		}
	}

	return nil
}

// skipID3v2 consumes an ID3v2 tag whose first 3 bytes ("ID3") have already
// been read from r, discarding the remainder of the tag.
func skipID3v2(r io.Reader) error {
	// 2 bytes: version (major, revision).
	// 1 byte:  flags.
	hdr := make([]byte, 3)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return unexpected(err)
	}
	// 4 bytes: synchsafe size, 7 significant bits per byte.
	szBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, szBuf); err != nil {
		return unexpected(err)
	}
	var size uint32
	for _, b := range szBuf {
		size = size<<7 | uint32(b&0x7F)
	}
	_, err := io.CopyN(io.Discard, r, int64(size))
	return unexpected(err)
}

// Next reads and returns the next audio frame of the stream. Next returns
// io.EOF once the stream has been exhausted.
func (s *Stream) Next() (*frame.Frame, error) {
	f, err := frame.Parse(s.r)
	if err != nil {
		// io.EOF at the start of a frame header is the only graceful end of
		// stream signal; any other error, including a truncated frame, is
		// returned unmodified.
		return nil, err
	}
	s.curSampleNum = f.SampleNumber()
	if len(f.SubFrames) > 0 {
		s.curSampleNum += uint64(len(f.SubFrames[0].Samples))
	}
	return f, nil
}

// ParseNext reads and returns the next audio frame of the stream. It is
// equivalent to Next.
func (s *Stream) ParseNext() (*frame.Frame, error) {
	return s.Next()
}

// Seek seeks to the frame containing the sample number computed from offset
// relative to whence (io.SeekStart, io.SeekCurrent or io.SeekEnd, measured
// in samples rather than bytes), and returns the absolute sample number of
// the first sample of that frame. The underlying io.Reader must implement
// io.Seeker, e.g. by using NewSeek or Open.
//
// A subsequent call to Next or ParseNext decodes the frame Seek positioned
// to; Seek itself does not consume any audio frame.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	seeker, ok := s.r.(io.Seeker)
	if !ok {
		return 0, ErrNoSeeker
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(s.curSampleNum) + offset
	case io.SeekEnd:
		target = int64(s.Info.NSamples) + offset
	default:
		return 0, fmt.Errorf("flac.Stream.Seek: invalid whence %d", whence)
	}
	if target < 0 {
		target = 0
	}

	if s.seekTable == nil || len(s.seekTable.Points) == 0 {
		if err := s.makeSeekTable(seeker); err != nil {
			return 0, err
		}
	}
	if s.seekTable == nil || len(s.seekTable.Points) == 0 {
		return 0, ErrNoSeekTable
	}

	point, ok := s.seekTable.bestPoint(uint64(target))
	if !ok {
		return 0, fmt.Errorf("flac.Stream.Seek: unable to seek to sample number %d", target)
	}

	if _, err := seeker.Seek(s.dataStart+int64(point.Offset), io.SeekStart); err != nil {
		return 0, err
	}

	start, err := s.searchFromStart(seeker, uint64(target))
	if err != nil {
		return 0, err
	}
	s.curSampleNum = start
	return int64(start), nil
}

// searchFromStart linearly scans frames starting from the reader's current
// position until it finds the frame containing sampleNum, seeking the
// reader back to the beginning of that frame and returning its starting
// sample number.
func (s *Stream) searchFromStart(seeker io.Seeker, sampleNum uint64) (uint64, error) {
	var prevPos int64
	var prevStart uint64
	havePrev := false
	for {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		f, err := frame.Parse(s.r)
		if err != nil {
			if err == io.EOF && havePrev {
				// sampleNum lies at or beyond the last frame of the stream;
				// settle for that last frame.
				_, err := seeker.Seek(prevPos, io.SeekStart)
				return prevStart, err
			}
			return 0, unexpected(err)
		}
		start := f.SampleNumber()
		var n uint64
		if len(f.SubFrames) > 0 {
			n = uint64(len(f.SubFrames[0].Samples))
		}
		if sampleNum < start+n {
			_, err := seeker.Seek(pos, io.SeekStart)
			return start, err
		}
		prevPos, prevStart, havePrev = pos, start, true
	}
}

// makeSeekTable synthesizes an in-memory seek table by scanning the stream
// from dataStart, recording the offsets of the first seekTableSize frames
// (one point per frame, in stream order), then restoring the reader's
// original position.
func (s *Stream) makeSeekTable(seeker io.Seeker) error {
	size := s.seekTableSize
	if size == 0 {
		size = defaultSeekTableSize
	}
	orig, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := seeker.Seek(s.dataStart, io.SeekStart); err != nil {
		return err
	}

	table := &meta.SeekTable{}
	for len(table.Points) < size {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		f, err := frame.Parse(s.r)
		if err != nil {
			break
		}
		var n uint16
		if len(f.SubFrames) > 0 {
			n = uint16(len(f.SubFrames[0].Samples))
		}
		table.Points = append(table.Points, meta.SeekPoint{
			SampleNum: f.SampleNumber(),
			Offset:    uint64(pos - s.dataStart),
			NSamples:  n,
		})
	}
	s.seekTable = table

	_, err = seeker.Seek(orig, io.SeekStart)
	return err
}

// unexpected returns io.ErrUnexpectedEOF if err is io.EOF, and returns err
// otherwise. io.EOF is only a graceful signal when returned directly by
// Next, between frames; everywhere else an io.EOF means the stream was
// truncated.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
