// Package resolver sends a single A query to the system-configured
// nameserver and hands back the raw wire-format response bytes.  Parsing
// the answer section is entirely the caller's business.
package resolver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"

	"nslook/log"
)

const (
	timeoutDial     = time.Second
	timeoutExchange = 5 * time.Second

	resolvConf = "/etc/resolv.conf"

	// bit 1 of the third header octet, response was truncated
	flagTC = 0x02

	headerLen = 12
)

type Resolver struct {
	server  string // host:port of the nameserver
	timeout time.Duration
}

// New returns a Resolver that queries the given nameserver address.
func New(server string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = timeoutExchange
	}

	return &Resolver{server: server, timeout: timeout}
}

// FromSystem builds a Resolver from the first nameserver the host resolver
// configuration lists.  There is no failover to later entries.
func FromSystem() (*Resolver, error) {
	cc, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil {
		return nil, fmt.Errorf("read %s error=[%+v]", resolvConf, err)
	}

	if len(cc.Servers) == 0 {
		return nil, errors.New("no nameservers configured")
	}

	return New(net.JoinHostPort(cc.Servers[0], cc.Port), time.Duration(cc.Timeout)*time.Second), nil
}

// Query sends one class IN type A query for host and returns the raw
// response message.  The query goes out over UDP with the classic 512 byte
// ceiling, a truncated response is re-asked once over TCP.  A response with
// a mismatched ID or a non-zero rcode is a transport failure, never
// retried.
func (r *Resolver) Query(ctx context.Context, host string) ([]byte, error) {
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(host), dns.TypeA)

	buf, err := r.exchange(ctx, "udp", req)
	if err != nil {
		return nil, err
	}

	if buf[2]&flagTC != 0 {
		log.Sugar.Debugf("%s truncated response for %s, asking again over tcp", r.server, host)
		if buf, err = r.exchange(ctx, "tcp", req); err != nil {
			return nil, err
		}
	}

	if rcode := int(buf[3] & 0x0F); rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%s answered %s for %s", r.server, dns.RcodeToString[rcode], host)
	}

	return buf, nil
}

func (r *Resolver) exchange(ctx context.Context, network string, req *dns.Msg) ([]byte, error) {

	dialer := &net.Dialer{Timeout: timeoutDial}
	rawConn, err := dialer.DialContext(ctx, network, r.server)
	if err != nil {
		return nil, fmt.Errorf("dial %s %s error=[%+v]", network, r.server, err)
	}
	defer func() { _ = rawConn.Close() }()

	var conn = dns.Conn{Conn: rawConn}
	if err = conn.SetDeadline(time.Now().Add(r.timeout)); err != nil {
		return nil, fmt.Errorf("set deadline error=[%+v]", err)
	}

	start := time.Now()
	if err = conn.WriteMsg(req); err != nil {
		return nil, fmt.Errorf("sending request to %s error=[%+v]", r.server, err)
	}

	size := dns.MinMsgSize
	if network == "tcp" {
		size = dns.MaxMsgSize
	}

	buf := make([]byte, size)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%s %s [%s]", r.server, err, req.Question[0].String())
	}

	if n < headerLen {
		return nil, fmt.Errorf("%s short response, %d bytes", r.server, n)
	}
	buf = buf[:n]

	if id := binary.BigEndian.Uint16(buf[0:2]); id != req.Id {
		return nil, fmt.Errorf("unmatched request and response, id %d != %d", req.Id, id)
	}

	log.Sugar.Debugf("%s %s response success, %d bytes, cost %s", r.server, network, n, time.Since(start))

	return buf, nil
}
