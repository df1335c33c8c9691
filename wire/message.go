// Package wire decodes raw wire-format DNS response messages into an
// ordered set of answer records and renders them for display.  Decoding is
// done by hand with bounds-checked cursor reads, the input buffer is never
// mutated or aliased.
package wire

import (
	"encoding/binary"

	"github.com/miekg/dns"
)

const (
	headerLen  = 12
	rrFixedLen = 10 // type 2 + class 2 + ttl 4 + rdlength 2
)

// header is the fixed-size DNS message header.
type header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

func unpackHeader(buf []byte) (header, error) {
	if len(buf) < headerLen {
		return header{}, &HeaderError{Size: len(buf)}
	}

	return header{
		ID:      binary.BigEndian.Uint16(buf[0:2]),
		Flags:   binary.BigEndian.Uint16(buf[2:4]),
		QDCount: binary.BigEndian.Uint16(buf[4:6]),
		ANCount: binary.BigEndian.Uint16(buf[6:8]),
		NSCount: binary.BigEndian.Uint16(buf[8:10]),
		ARCount: binary.BigEndian.Uint16(buf[10:12]),
	}, nil
}

// AnswerCount returns the ANCOUNT field of the message header.
func AnswerCount(buf []byte) (int, error) {
	h, err := unpackHeader(buf)
	if err != nil {
		return 0, err
	}
	return int(h.ANCount), nil
}

// Parse decodes the answer section of a complete wire-format DNS response.
// answerCount must equal the ANCOUNT the header carries, the header value
// is re-derived and a disagreement fails the parse.  Any decode failure
// aborts the parse, a partial RecordSet is never returned.
func Parse(buf []byte, answerCount int) (*RecordSet, error) {
	h, err := unpackHeader(buf)
	if err != nil {
		return nil, err
	}

	if answerCount != int(h.ANCount) {
		return nil, &CountMismatchError{Declared: answerCount, Header: int(h.ANCount)}
	}

	// walk past the question section
	off := headerLen
	for i := 0; i < int(h.QDCount); i++ {
		if _, off, err = unpackName(buf, off); err != nil {
			return nil, &QuestionError{Index: i, Err: err}
		}

		// qtype and qclass
		if off+4 > len(buf) {
			return nil, &QuestionError{Index: i, Err: errShortQuestion}
		}
		off += 4
	}

	rs := newRecordSet(answerCount)
	for i := 0; i < answerCount; i++ {
		var rr ResourceRecord
		if rr, off, err = unpackRecord(buf, off); err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		rs.append(rr)
	}

	return rs, nil
}

// unpackRecord decodes one resource record at off and returns it together
// with the offset of the first byte after its rdata.
func unpackRecord(buf []byte, off int) (ResourceRecord, int, error) {
	_, off, err := unpackName(buf, off)
	if err != nil {
		return ResourceRecord{}, 0, err
	}

	if off+rrFixedLen > len(buf) {
		return ResourceRecord{}, 0, errShortRecord
	}

	rr := ResourceRecord{
		Type:  binary.BigEndian.Uint16(buf[off : off+2]),
		Class: binary.BigEndian.Uint16(buf[off+2 : off+4]),
		TTL:   binary.BigEndian.Uint32(buf[off+4 : off+8]),
	}

	rdLength := int(binary.BigEndian.Uint16(buf[off+8 : off+10]))
	rdStart := off + rrFixedLen
	rdEnd := rdStart + rdLength
	if rdEnd > len(buf) {
		return ResourceRecord{}, 0, errShortRData
	}

	rr.Data = make([]byte, rdLength)
	copy(rr.Data, buf[rdStart:rdEnd])

	// CNAME rdata is itself a wire-encoded name and may point back into
	// the message, decode it here while the full buffer is at hand
	if rr.Type == dns.TypeCNAME {
		if rr.Host, _, err = unpackName(buf, rdStart); err != nil {
			return ResourceRecord{}, 0, err
		}
	}

	return rr, rdEnd, nil
}
