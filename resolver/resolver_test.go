package resolver

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"nslook/log"
)

func TestMain(m *testing.M) {
	if err := log.Init(log.Config{STDERR: true, Level: -1}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// serveUDP runs a loopback nameserver answering every request with the
// reply fn produces, nil means stay silent.
func serveUDP(t *testing.T, fn func(req *dns.Msg) *dns.Msg) string {
	t.Helper()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, dns.MinMsgSize)
		for {
			n, remote, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}

			req := new(dns.Msg)
			if req.Unpack(buf[:n]) != nil {
				continue
			}

			resp := fn(req)
			if resp == nil {
				continue
			}

			raw, err := resp.Pack()
			if err != nil {
				continue
			}
			_, _ = conn.WriteToUDP(raw, remote)
		}
	}()

	return conn.LocalAddr().String()
}

func answerA(req *dns.Msg, ip string) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetReply(req)
	resp.Answer = []dns.RR{&dns.A{
		Hdr: dns.RR_Header{Name: req.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
		A:   net.ParseIP(ip).To4(),
	}}
	return resp
}

func TestQuery(t *testing.T) {
	addr := serveUDP(t, func(req *dns.Msg) *dns.Msg {
		return answerA(req, "93.184.216.34")
	})

	r := New(addr, time.Second)
	buf, err := r.Query(context.Background(), "example.com")
	require.NoError(t, err)

	resp := new(dns.Msg)
	require.NoError(t, resp.Unpack(buf))
	require.Len(t, resp.Answer, 1)
	require.Equal(t, "example.com.", resp.Question[0].Name)
}

func TestQueryRcode(t *testing.T) {
	addr := serveUDP(t, func(req *dns.Msg) *dns.Msg {
		resp := new(dns.Msg)
		resp.SetRcode(req, dns.RcodeServerFailure)
		return resp
	})

	r := New(addr, time.Second)
	_, err := r.Query(context.Background(), "example.com")
	require.ErrorContains(t, err, "SERVFAIL")
}

func TestQueryIDMismatch(t *testing.T) {
	addr := serveUDP(t, func(req *dns.Msg) *dns.Msg {
		resp := new(dns.Msg)
		resp.SetReply(req)
		resp.Id = req.Id + 1
		return resp
	})

	r := New(addr, time.Second)
	_, err := r.Query(context.Background(), "example.com")
	require.ErrorContains(t, err, "unmatched")
}

func TestQueryTimeout(t *testing.T) {
	addr := serveUDP(t, func(req *dns.Msg) *dns.Msg {
		return nil
	})

	r := New(addr, 100*time.Millisecond)
	_, err := r.Query(context.Background(), "example.com")
	require.Error(t, err)
}

func TestQueryTruncated(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	port := ln.Addr().(*net.TCPAddr).Port
	uconn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = uconn.Close() })

	// udp leg answers with the TC bit set and no records
	go func() {
		buf := make([]byte, dns.MinMsgSize)
		n, remote, err := uconn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		req := new(dns.Msg)
		if req.Unpack(buf[:n]) != nil {
			return
		}

		resp := new(dns.Msg)
		resp.SetReply(req)
		resp.Truncated = true
		raw, _ := resp.Pack()
		_, _ = uconn.WriteToUDP(raw, remote)
	}()

	// tcp leg carries the full reply
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer func() { _ = c.Close() }()

		dc := &dns.Conn{Conn: c}
		req, err := dc.ReadMsg()
		if err != nil {
			return
		}
		_ = dc.WriteMsg(answerA(req, "93.184.216.34"))
	}()

	r := New(net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
	buf, err := r.Query(context.Background(), "example.com")
	require.NoError(t, err)

	resp := new(dns.Msg)
	require.NoError(t, resp.Unpack(buf))
	require.False(t, resp.Truncated)
	require.Len(t, resp.Answer, 1)
}
