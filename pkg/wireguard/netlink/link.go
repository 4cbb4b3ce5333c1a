package netlink

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

const (
	LinkType = "wireguard"
)

type Link struct {
	netlink.LinkAttrs
}

func (w *Link) Attrs() *netlink.LinkAttrs {
	return &w.LinkAttrs
}

func (w *Link) Type() string {
	return LinkType
}

// LinkNotFoundError is returned when the interface does not exist.
type LinkNotFoundError struct {
	Name string
}

func (e LinkNotFoundError) Error() string {
	return fmt.Sprintf("interface %s does not exist", e.Name)
}

// WrongTypeError is returned when the interface exists but is not a WireGuard interface.
type WrongTypeError struct {
	Name string
	Type string
}

func (e WrongTypeError) Error() string {
	return fmt.Sprintf("interface %s is of type %s, expected %s", e.Name, e.Type, LinkType)
}

// Checker verifies that a WireGuard interface is present on the host.
type Checker struct {
	interfaceName string
	linkByName    func(name string) (netlink.Link, error)
}

func NewChecker(interfaceName string) *Checker {
	return &Checker{
		interfaceName: interfaceName,
		linkByName:    netlink.LinkByName,
	}
}

// Check can be used as a readiness check.
func (c *Checker) Check() error {
	link, err := c.linkByName(c.interfaceName)
	if err != nil {
		if _, isNotFoundErr := err.(netlink.LinkNotFoundError); isNotFoundErr {
			return LinkNotFoundError{Name: c.interfaceName}
		}
		return fmt.Errorf("unable to get the interface %s: %w", c.interfaceName, err)
	}

	if link.Type() != LinkType {
		return WrongTypeError{Name: c.interfaceName, Type: link.Type()}
	}

	return nil
}
