package wire

import (
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// ResourceRecord is one decoded DNS answer entry.  Data is a private copy
// of the record's rdata, Host carries the decoded target name for CNAME
// records and is empty otherwise.
type ResourceRecord struct {
	Type  uint16
	Class uint16
	TTL   uint32
	Data  []byte
	Host  string
}

// RecordSet is an ordered sequence of resource records in answer-section
// order.  It is filled once during a parse and read-only afterwards.
type RecordSet struct {
	records []ResourceRecord
}

func newRecordSet(capacity int) *RecordSet {
	return &RecordSet{records: make([]ResourceRecord, 0, capacity)}
}

func (s *RecordSet) append(rr ResourceRecord) {
	s.records = append(s.records, rr)
}

func (s *RecordSet) Len() int {
	return len(s.records)
}

// Records returns the decoded records in answer-section order.
func (s *RecordSet) Records() []ResourceRecord {
	return s.records
}

// Render returns one display line per record.  A records become dotted
// decimal, CNAME records the decoded target name, everything else a hex
// dump of the rdata.  An empty set renders an explicit marker line.
func (s *RecordSet) Render() []string {
	if len(s.records) == 0 {
		return []string{"No records"}
	}

	lines := make([]string, 0, len(s.records))
	for _, rr := range s.records {
		lines = append(lines, rr.render())
	}

	return lines
}

func (rr ResourceRecord) render() string {
	prefix := fmt.Sprintf("Type: %d Class: %d TTL: %d RDLength: %d ", rr.Type, rr.Class, rr.TTL, len(rr.Data))

	switch rr.Type {
	case dns.TypeA:
		if len(rr.Data) != net.IPv4len {
			return prefix + "Invalid A record length"
		}
		return prefix + "RData: " + net.IP(rr.Data).String()
	case dns.TypeCNAME:
		return prefix + "RData (CNAME): " + rr.Host
	default:
		return prefix + fmt.Sprintf("RData (unknown type): % x", rr.Data)
	}
}
