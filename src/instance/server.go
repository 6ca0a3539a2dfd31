package instance

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LastSource supplies the most recently captured selection. False when
// nothing has been captured yet.
type LastSource func() (string, bool)

// Server is the resident endpoint. It answers PING for instance detection
// and LAST with the most recent capture.
type Server struct {
	lis    net.Listener
	port   int
	source LastSource
	logger *zap.Logger
}

// NewServer creates an unstarted server. A nil source answers every LAST
// request with NONE.
func NewServer(source LastSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{source: source, logger: logger}
}

// Start binds the first free port in the configured range and begins
// serving. Returns an error when the whole range is occupied.
func (s *Server) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}

	start, end := portRange()
	var lastErr error
	for port := start; port <= end; port++ {
		lc := net.ListenConfig{}
		lis, err := lc.Listen(ctx, "tcp", net.JoinHostPort(residentHost, strconv.Itoa(port)))
		if err != nil {
			lastErr = err
			continue
		}
		s.lis = lis
		s.port = port
		go s.serve(ctx)
		s.logger.Debug("instance endpoint listening", zap.Int("port", port))
		return nil
	}
	return fmt.Errorf("no free instance port in [%d,%d]: %w", start, end, lastErr)
}

// Port returns the bound port, zero before Start.
func (s *Server) Port() int { return s.port }

// Close stops accepting connections.
func (s *Server) Close() error {
	if s.lis == nil {
		return nil
	}
	return s.lis.Close()
}

func (s *Server) serve(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := s.lis.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	line, err := r.ReadString('\n')
	if err != nil {
		return
	}

	switch line {
	case pingRequest:
		_, _ = w.WriteString(pongResponse)
	case lastRequest:
		s.writeLast(w)
	default:
		s.logger.Debug("unknown instance request", zap.String("request", strings.TrimSpace(line)))
		return
	}
	_ = w.Flush()
}

func (s *Server) writeLast(w *bufio.Writer) {
	if s.source == nil {
		_, _ = w.WriteString(nonePrefix + "\n")
		return
	}
	text, ok := s.source()
	if !ok {
		_, _ = w.WriteString(nonePrefix + "\n")
		return
	}
	// Quote so captured newlines survive the line protocol.
	_, _ = w.WriteString(textPrefix + strconv.Quote(text) + "\n")
}
