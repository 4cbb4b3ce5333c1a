package log

import (
	"flag"
)

func EncodingFlag(fs *flag.FlagSet, name string, defaultEncoding Encoding, usage string) *Encoding {
	e := defaultEncoding
	fs.Var(&e, name, usage)
	return &e
}
