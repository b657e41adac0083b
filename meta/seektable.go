package meta

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// SeekTable contains one or more precalculated audio frame seek points.
type SeekTable struct {
	// One or more seek points.
	Points []SeekPoint
}

// A SeekPoint specifies the byte offset and initial sample number of a given
// target frame.
type SeekPoint struct {
	// Sample number of the first sample in the target frame, or
	// 0xFFFFFFFFFFFFFFFF for a placeholder point.
	SampleNum uint64
	// Offset in bytes from the first byte of the first frame header to the
	// first byte of the target frame's header.
	Offset uint64
	// Number of samples in the target frame.
	NSamples uint16
}

// PlaceholderPoint represents the sample number used to specify placeholder
// seek points.
const PlaceholderPoint = 0xFFFFFFFFFFFFFFFF

// seekPointSize is the encoded size in bytes of a single SeekPoint.
const seekPointSize = 18

// bestPoint returns the seek point with the largest SampleNum not exceeding
// target, ignoring placeholder points. If no such point exists, the point
// with the smallest SampleNum is returned instead, so that seeking before
// the first point still lands on a valid frame boundary.
func (t *SeekTable) bestPoint(target uint64) (SeekPoint, bool) {
	var best, first SeekPoint
	haveBest, haveFirst := false, false
	for _, p := range t.Points {
		if p.SampleNum == PlaceholderPoint {
			continue
		}
		if !haveFirst || p.SampleNum < first.SampleNum {
			first = p
			haveFirst = true
		}
		if p.SampleNum <= target && (!haveBest || p.SampleNum > best.SampleNum) {
			best = p
			haveBest = true
		}
	}
	if haveBest {
		return best, true
	}
	return first, haveFirst
}

// parseSeekTable reads and parses the body of a SeekTable metadata block.
func (block *Block) parseSeekTable() error {
	// The number of seek points is derived from the header length, divided
	// by the size of a SeekPoint.
	n := block.Length / seekPointSize
	if n < 1 {
		return errors.New("meta.Block.parseSeekTable: at least one seek point is required")
	}
	table := &SeekTable{Points: make([]SeekPoint, n)}
	block.Body = table
	var prev uint64
	for i := range table.Points {
		point := &table.Points[i]
		if err := binary.Read(block.lr, binary.BigEndian, point); err != nil {
			return unexpected(err)
		}
		// Seek points within a table must be sorted in ascending order by
		// sample number. Each seek point must have a unique sample number,
		// except for placeholder points.
		if i != 0 && point.SampleNum != PlaceholderPoint {
			switch {
			case point.SampleNum < prev:
				return fmt.Errorf("meta.Block.parseSeekTable: invalid seek point order; sample number (%d) < prev (%d)", point.SampleNum, prev)
			case point.SampleNum == prev:
				return fmt.Errorf("meta.Block.parseSeekTable: duplicate seek point with sample number (%d)", point.SampleNum)
			}
		}
		prev = point.SampleNum
	}
	return nil
}
