package operand

import (
	"fmt"
	"net/netip"
	"strconv"
)

// IPv4 wraps a single IPv4 address. Parsing and family validation are
// delegated to net/netip, the idiomatic stdlib answer for IP arithmetic —
// nothing in the corpus brings its own IP type.
type IPv4 struct {
	Addr netip.Addr
}

// NewIPv4 parses text as a plain IPv4 address.
func NewIPv4(text string) (IPv4, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return IPv4{}, err
	}
	if !addr.Is4() {
		return IPv4{}, fmt.Errorf("%q is not an IPv4 address", text)
	}
	return IPv4{Addr: addr}, nil
}

func (a IPv4) Kind() Kind     { return KindIPv4 }
func (a IPv4) String() string { return a.Addr.String() }
func (a IPv4) Hash() uint64 {
	b := a.Addr.As4()
	return hashBytes(byte(KindIPv4), b[:])
}
func (a IPv4) Equal(other Operand) bool {
	o, ok := other.(IPv4)
	return ok && a.Addr == o.Addr
}
func (IPv4) setElement() {}

// IPv6 wraps a single IPv6 address.
type IPv6 struct {
	Addr netip.Addr
}

// NewIPv6 parses text as a plain IPv6 address.
func NewIPv6(text string) (IPv6, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return IPv6{}, err
	}
	if !addr.Is6() {
		return IPv6{}, fmt.Errorf("%q is not an IPv6 address", text)
	}
	return IPv6{Addr: addr}, nil
}

func (a IPv6) Kind() Kind     { return KindIPv6 }
func (a IPv6) String() string { return a.Addr.String() }
func (a IPv6) Hash() uint64 {
	b := a.Addr.As16()
	return hashBytes(byte(KindIPv6), b[:])
}
func (a IPv6) Equal(other Operand) bool {
	o, ok := other.(IPv6)
	return ok && a.Addr == o.Addr
}
func (IPv6) setElement() {}

// CIDRv4 is an IPv4 network: Network is always pre-masked to Prefix bits,
// so host bits never leak into Hash/Equal/String (spec.md §3: "network :=
// address & mask", masked at construction, not at eval).
type CIDRv4 struct {
	Network netip.Addr
	Prefix  int
}

// NewCIDRv4 validates prefix against [0,32] and masks host bits out of
// addrText's address.
func NewCIDRv4(addrText string, prefix int) (CIDRv4, error) {
	if prefix < 0 || prefix > 32 {
		return CIDRv4{}, fmt.Errorf("invalid prefix length %d", prefix)
	}
	addr, err := netip.ParseAddr(addrText)
	if err != nil {
		return CIDRv4{}, err
	}
	if !addr.Is4() {
		return CIDRv4{}, fmt.Errorf("%q is not an IPv4 address", addrText)
	}
	masked := netip.PrefixFrom(addr, prefix).Masked()
	return CIDRv4{Network: masked.Addr(), Prefix: prefix}, nil
}

func (c CIDRv4) Kind() Kind     { return KindCIDRv4 }
func (c CIDRv4) String() string { return c.Network.String() + "/" + strconv.Itoa(c.Prefix) }
func (c CIDRv4) Hash() uint64 {
	b := c.Network.As4()
	return hashBytes(byte(KindCIDRv4), b[:], []byte{byte(c.Prefix)})
}
func (c CIDRv4) Equal(other Operand) bool {
	o, ok := other.(CIDRv4)
	return ok && c.Network == o.Network && c.Prefix == o.Prefix
}

// Contains reports whether addr falls within the network: (addr & mask) ==
// network.
func (c CIDRv4) Contains(addr netip.Addr) bool {
	return netip.PrefixFrom(c.Network, c.Prefix).Contains(addr)
}

// CIDRv6 is an IPv6 network, masked the same way as CIDRv4.
type CIDRv6 struct {
	Network netip.Addr
	Prefix  int
}

// NewCIDRv6 validates prefix against [0,128] and masks host bits out of
// addrText's address.
func NewCIDRv6(addrText string, prefix int) (CIDRv6, error) {
	if prefix < 0 || prefix > 128 {
		return CIDRv6{}, fmt.Errorf("invalid prefix length %d", prefix)
	}
	addr, err := netip.ParseAddr(addrText)
	if err != nil {
		return CIDRv6{}, err
	}
	if !addr.Is6() {
		return CIDRv6{}, fmt.Errorf("%q is not an IPv6 address", addrText)
	}
	masked := netip.PrefixFrom(addr, prefix).Masked()
	return CIDRv6{Network: masked.Addr(), Prefix: prefix}, nil
}

func (c CIDRv6) Kind() Kind     { return KindCIDRv6 }
func (c CIDRv6) String() string { return c.Network.String() + "/" + strconv.Itoa(c.Prefix) }
func (c CIDRv6) Hash() uint64 {
	b := c.Network.As16()
	return hashBytes(byte(KindCIDRv6), b[:], []byte{byte(c.Prefix)})
}
func (c CIDRv6) Equal(other Operand) bool {
	o, ok := other.(CIDRv6)
	return ok && c.Network == o.Network && c.Prefix == o.Prefix
}

// Contains reports whether addr falls within the network.
func (c CIDRv6) Contains(addr netip.Addr) bool {
	return netip.PrefixFrom(c.Network, c.Prefix).Contains(addr)
}
