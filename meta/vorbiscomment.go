package meta

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// VorbisComment contains a list of name-value pairs.
type VorbisComment struct {
	// Vendor name.
	Vendor string
	// A list of tags, each represented by a name-value pair.
	Tags [][2]string
}

// minVectorLen is the encoded size in bytes of an empty length-prefixed
// vector (the 4-byte length field itself).
const minVectorLen = 4

// parseVorbisComment reads and parses the body of a VorbisComment metadata
// block.
func (block *Block) parseVorbisComment() (err error) {
	// 32 bits: vendor length.
	var x uint32
	if err = binary.Read(block.lr, binary.LittleEndian, &x); err != nil {
		return unexpected(err)
	}

	// (vendor length) bytes: Vendor.
	vendor, err := readString(block.lr, int(x))
	if err != nil {
		return unexpected(err)
	}
	comment := new(VorbisComment)
	block.Body = comment
	comment.Vendor = vendor

	// 32 bits: number of tags.
	if err = binary.Read(block.lr, binary.LittleEndian, &x); err != nil {
		return unexpected(err)
	}
	if x < 1 {
		return nil
	}
	// Each tag occupies at least 4 bytes (its own length prefix); reject tag
	// counts that could not possibly fit within the block as declared, to
	// avoid allocating an attacker-controlled number of string headers.
	if int64(x)*minVectorLen > block.Length {
		return ErrDeclaredBlockTooBig
	}
	comment.Tags = make([][2]string, x)
	for i := range comment.Tags {
		// 32 bits: vector length.
		if err = binary.Read(block.lr, binary.LittleEndian, &x); err != nil {
			return unexpected(err)
		}

		// (vector length) bytes: vector.
		vector, err := readString(block.lr, int(x))
		if err != nil {
			return unexpected(err)
		}

		// Parse tag, which has the following format:
		//    NAME=VALUE
		pos := strings.Index(vector, "=")
		if pos == -1 {
			return fmt.Errorf("meta.Block.parseVorbisComment: unable to locate '=' in vector %q", vector)
		}
		comment.Tags[i][0] = vector[:pos]
		comment.Tags[i][1] = vector[pos+1:]
	}

	return nil
}
