// Package udp forwards validated NMEA sentences to a downstream
// consumer, e.g. a moving map or another logger on the network.
package udp

import (
	"fmt"
	"net"
)

type udpConn interface {
	Write(p []byte) (int, error)
	Close() error
}

type resolveFunc func(network, address string) (*net.UDPAddr, error)

type dialFunc func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)

type Forwarder struct {
	dest string
	conn udpConn
}

func NewForwarder(dest string) (*Forwarder, error) {
	dial := func(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
		return net.DialUDP(network, laddr, raddr)
	}
	return newForwarder(dest, net.ResolveUDPAddr, dial)
}

func newForwarder(dest string, resolve resolveFunc, dial dialFunc) (*Forwarder, error) {
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := dial("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Forwarder{dest: dest, conn: conn}, nil
}

// Forward sends one sentence, restoring the line terminators the read
// loop stripped.
func (f *Forwarder) Forward(sentence string) error {
	if sentence == "" {
		return nil
	}
	_, err := f.conn.Write([]byte(sentence + "\r\n"))
	return err
}

func (f *Forwarder) Close() error {
	if f.conn == nil {
		return nil
	}
	return f.conn.Close()
}
