package server

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/strandkv/strand/internal/command"
	"github.com/strandkv/strand/internal/resp"
	"github.com/strandkv/strand/internal/telemetry/logger"
)

// serveConn runs the request loop for one connection: accumulate bytes,
// decode complete frames, execute, reply. Pipelined requests are answered
// strictly in arrival order because the loop drains buffered frames before
// reading again.
func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	defer nc.Close()

	log := s.logger.With(
		"conn_id", logger.ConnIDFromContext(ctx),
		"remote", nc.RemoteAddr().String(),
	)
	log.Debug("connection opened")

	write := func(v resp.Value) bool {
		if s.cfg.WriteTimeout > 0 {
			_ = nc.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if _, err := nc.Write(v.Encode()); err != nil {
			log.Debug("write failed", "error", err)
			return false
		}
		return true
	}

	var buf []byte
	tmp := make([]byte, 4096)

	var idleDeadline time.Time
	resetIdle := func() {
		if s.cfg.ReadTimeout > 0 {
			idleDeadline = time.Now().Add(s.cfg.ReadTimeout)
		}
	}
	resetIdle()

	for {
		for len(buf) > 0 {
			v, n, err := resp.Decode(buf)
			if errors.Is(err, resp.ErrIncomplete) {
				break
			}
			if err != nil {
				// Framing errors are unrecoverable: the stream position is
				// lost, so reply once and drop the connection.
				if s.metrics != nil {
					s.metrics.ProtocolErrors.Inc()
				}
				log.Warn("protocol error", "error", err)
				write(resp.Error("ERR", "protocol error: "+err.Error()))
				return
			}
			buf = buf[n:]
			if !s.handleRequest(ctx, nc, v, write) {
				return
			}
			resetIdle()
		}

		if ctx.Err() != nil {
			log.Debug("connection closed on shutdown")
			return
		}

		// Reads are bounded by a short poll so shutdown and the idle
		// timeout are both noticed without a dedicated watchdog goroutine.
		poll := time.Now().Add(time.Second)
		if !idleDeadline.IsZero() && idleDeadline.Before(poll) {
			poll = idleDeadline
		}
		_ = nc.SetReadDeadline(poll)

		n, err := nc.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
			resetIdle()
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Debug("connection closed by peer")
			case isTimeout(err):
				if !idleDeadline.IsZero() && time.Now().After(idleDeadline) {
					log.Debug("connection idle timeout")
					return
				}
				continue
			case errors.Is(err, net.ErrClosed):
			default:
				log.Debug("read failed", "error", err)
			}
			return
		}
	}
}

// handleRequest executes one decoded request frame and writes its reply.
// It returns false when the connection should be closed.
func (s *Server) handleRequest(ctx context.Context, nc net.Conn, req resp.Value, write func(resp.Value) bool) bool {
	if s.limiters != nil && !s.limiters.allow(remoteIP(nc)) {
		return write(resp.Error("ERR", "rate limit exceeded"))
	}

	cmd, err := command.Parse(req)
	if err != nil {
		// A well-framed but invalid command is the client's problem, not
		// the stream's: reply with an error and keep the connection.
		return write(resp.Error("ERR", parseErrText(err)))
	}

	// Clear the read deadline while executing: a blocking pop may park far
	// longer than any idle timeout.
	_ = nc.SetReadDeadline(time.Time{})

	start := time.Now()
	res := s.store.Execute(ctx, cmd)
	if s.metrics != nil {
		s.metrics.CommandsTotal.WithLabelValues(cmd.Name()).Inc()
		s.metrics.CommandDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())
	}
	return write(res)
}

// parseErrText strips the package prefix off a parse error so the wire
// message reads like a protocol error, not a Go error chain.
func parseErrText(err error) string {
	return strings.TrimPrefix(err.Error(), command.ErrParse.Error()+": ")
}

func remoteIP(nc net.Conn) string {
	host, _, err := net.SplitHostPort(nc.RemoteAddr().String())
	if err != nil {
		return nc.RemoteAddr().String()
	}
	return host
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
