package netlink

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vishvananda/netlink"
)

func TestChecker(t *testing.T) {
	tests := []struct {
		name        string
		link        netlink.Link
		err         error
		expectedErr string
	}{
		{
			name: "wireguard interface",
			link: &Link{LinkAttrs: netlink.LinkAttrs{Name: "wg0"}},
		},
		{
			name:        "missing interface",
			err:         netlink.LinkNotFoundError{},
			expectedErr: "interface wg0 does not exist",
		},
		{
			name:        "interface of another type",
			link:        &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "wg0"}},
			expectedErr: "interface wg0 is of type dummy, expected wireguard",
		},
		{
			name:        "netlink failure",
			err:         errors.New("operation not permitted"),
			expectedErr: "unable to get the interface wg0: operation not permitted",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			checker := NewChecker("wg0")
			checker.linkByName = func(name string) (netlink.Link, error) {
				if name != "wg0" {
					t.Fatalf("unexpected interface lookup for %s", name)
				}
				return test.link, test.err
			}

			err := checker.Check()
			if test.expectedErr == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if got := fmt.Sprint(err); got != test.expectedErr {
				t.Errorf("expected error %q, got %q", test.expectedErr, got)
			}
		})
	}
}
