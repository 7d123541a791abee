package compose

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// Joint is one state of the product machine. Entry i is the state index of
// component i, in composition order. Joints are plain slices, callers that
// keep one across an Expand must Clone it.
type Joint []int

// Key packs the joint into a string usable as a map key. Two joints have the
// same key exactly when they are Equal.
func (j Joint) Key() string {
	var tmp [binary.MaxVarintLen64]byte
	buf := make([]byte, 0, len(j)*2)
	for _, s := range j {
		n := binary.PutUvarint(tmp[:], uint64(s))
		buf = append(buf, tmp[:n]...)
	}
	return string(buf)
}

// Clone returns an independent copy of the joint.
func (j Joint) Clone() Joint {
	return append(Joint{}, j...)
}

// Equal tells whether both joints name the same component states.
func (j Joint) Equal(other Joint) bool {
	if len(j) != len(other) {
		return false
	}
	for i := range j {
		if j[i] != other[i] {
			return false
		}
	}
	return true
}

func (j Joint) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, s := range j {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(s))
	}
	sb.WriteByte(')')
	return sb.String()
}
