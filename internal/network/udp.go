// Package network is the transport collaborator for the sentence codec: a
// UDP socket facing the transceiver's presentation interface plus the line
// framing that hands the codec complete, already-delimited sentences.
package network

import (
	"fmt"
	"log"
	"net"
	"time"
)

// UDPSocket carries presentation-interface traffic to and from a VDES
// transceiver. Server mode binds a local port for inbound sentences;
// client mode sends from an ephemeral port.
type UDPSocket struct {
	conn    *net.UDPConn
	address string
	port    int
	debug   bool
}

// NewUDPSocket creates a socket bound to a specific local address and port.
func NewUDPSocket(address string, port int) *UDPSocket {
	return &UDPSocket{address: address, port: port}
}

// NewUDPSocketClient creates an unbound socket sending from an ephemeral
// port.
func NewUDPSocketClient() *UDPSocket {
	return &UDPSocket{}
}

// SetDebug enables per-datagram logging.
func (s *UDPSocket) SetDebug(debug bool) {
	s.debug = debug
}

// Open binds the socket. IPv4 only, matching deployed transceiver firmware.
func (s *UDPSocket) Open() error {
	local := &net.UDPAddr{IP: net.IPv4zero, Port: s.port}
	if s.address != "" {
		local.IP = net.ParseIP(s.address)
		if local.IP == nil {
			return fmt.Errorf("invalid address: %s", s.address)
		}
	}

	conn, err := net.ListenUDP("udp4", local)
	if err != nil {
		return fmt.Errorf("failed to open UDP socket: %w", err)
	}
	s.conn = conn
	log.Printf("UDP socket bound to %s", conn.LocalAddr())
	return nil
}

// Read waits up to timeout for one datagram. It returns 0 bytes and a nil
// error when the timeout elapses with no data.
func (s *UDPSocket) Read(buffer []byte, timeout time.Duration) (int, *net.UDPAddr, error) {
	if s.conn == nil {
		return 0, nil, fmt.Errorf("socket not open")
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, nil, err
	}
	n, addr, err := s.conn.ReadFromUDP(buffer)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return 0, nil, nil
		}
		return 0, nil, err
	}
	if s.debug {
		log.Printf("UDP RX %d bytes from %s", n, addr)
	}
	return n, addr, nil
}

// Write sends one datagram to the given address.
func (s *UDPSocket) Write(buffer []byte, addr *net.UDPAddr) error {
	if s.conn == nil {
		return fmt.Errorf("socket not open")
	}
	if _, err := s.conn.WriteToUDP(buffer, addr); err != nil {
		return fmt.Errorf("UDP write to %s: %w", addr, err)
	}
	if s.debug {
		log.Printf("UDP TX %d bytes to %s", len(buffer), addr)
	}
	return nil
}

// Close releases the socket.
func (s *UDPSocket) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// Lookup resolves a hostname to its first IPv4 address.
func Lookup(hostname string) (net.IP, error) {
	if ip := net.ParseIP(hostname); ip != nil {
		return ip, nil
	}
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address found for %s", hostname)
}

// ParseUDPAddr resolves an address and port into a UDP address.
func ParseUDPAddr(address string, port int) (*net.UDPAddr, error) {
	ip, err := Lookup(address)
	if err != nil {
		return nil, err
	}
	return &net.UDPAddr{IP: ip, Port: port}, nil
}
