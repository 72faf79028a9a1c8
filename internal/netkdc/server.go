// Package netkdc is the TGS network front end: a length-prefixed TCP
// listener that frames KDC-REQ/KDC-REP messages the way RFC 4120
// section 7.2.2 frames them over TCP, and dispatches each decoded
// request to a tgs.Core.
package netkdc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dirsrv/kdc/internal/logger"
	"github.com/dirsrv/kdc/pkg/kerberr"
	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/tgs"
)

// maxMessageSize bounds a single framed message, guarding against a
// peer that sends a bogus length prefix and never the bytes to match.
const maxMessageSize = 1 << 20

// Server accepts TCP connections, reads one length-prefixed request
// per round trip, and replies in kind. Real Kerberos clients speak
// this same 4-byte-length-then-message framing over TCP (UDP carries
// the message unframed); this server only implements the TCP form.
type Server struct {
	Addr  string
	Core  *tgs.Core
	Codec krb5msg.GobCodec

	listener net.Listener
}

// Serve accepts connections until ctx is cancelled, then closes the
// listener and returns. It blocks, so callers run it in a goroutine.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("netkdc: listen on %s: %w", s.Addr, err)
	}
	s.listener = listener

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	logger.Info("kdc network front end listening", "addr", s.Addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("netkdc: accept: %w", err)
			}
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	clientAddr := clientIP(conn.RemoteAddr())

	for {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		payload, err := readFramed(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("netkdc: read failed", "remote", conn.RemoteAddr(), "error", err)
			}
			return
		}

		req, err := s.Codec.DecodeKdcReq(payload)
		if err != nil {
			logger.Warn("netkdc: malformed request", "remote", conn.RemoteAddr(), "error", err)
			return
		}

		rep, err := s.Core.Execute(ctx, clientAddr, req)
		if err != nil {
			if kerr, ok := err.(*kerberr.Error); ok {
				logger.InfoCtx(ctx, "tgs request rejected", "code", kerr.Code.String(), "message", kerr.Message)
			}
			return
		}

		out, err := s.Codec.EncodeTgsRep(rep)
		if err != nil {
			logger.Error("netkdc: failed to encode reply", "error", err)
			return
		}

		if err := writeFramed(conn, out); err != nil {
			logger.Warn("netkdc: write failed", "remote", conn.RemoteAddr(), "error", err)
			return
		}
	}
}

func readFramed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxMessageSize {
		return nil, fmt.Errorf("netkdc: message too large: %d bytes", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFramed(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func clientIP(addr net.Addr) net.IP {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil
	}
	return tcpAddr.IP
}
